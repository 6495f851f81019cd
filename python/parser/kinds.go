package parser

// Node kinds of the Python grammar. Every named node in a tree has one of
// these kinds or KindError.
const (
	KindModule                   = "module"
	KindImportStatement          = "import_statement"
	KindImportFromStatement      = "import_from_statement"
	KindAliasedImport            = "aliased_import"
	KindWildcardImport           = "wildcard_import"
	KindPrintStatement           = "print_statement"
	KindChevron                  = "chevron"
	KindAssertStatement          = "assert_statement"
	KindExpressionStatement      = "expression_statement"
	KindReturnStatement          = "return_statement"
	KindDeleteStatement          = "delete_statement"
	KindRaiseStatement           = "raise_statement"
	KindPassStatement            = "pass_statement"
	KindBreakStatement           = "break_statement"
	KindContinueStatement        = "continue_statement"
	KindIfStatement              = "if_statement"
	KindElifClause               = "elif_clause"
	KindElseClause               = "else_clause"
	KindForStatement             = "for_statement"
	KindWhileStatement           = "while_statement"
	KindTryStatement             = "try_statement"
	KindExceptClause             = "except_clause"
	KindFinallyClause            = "finally_clause"
	KindWithStatement            = "with_statement"
	KindWithItem                 = "with_item"
	KindAsyncFunctionDefinition  = "async_function_definition"
	KindFunctionDefinition       = "function_definition"
	KindParameters               = "parameters"
	KindLambdaParameters         = "lambda_parameters"
	KindDefaultParameter         = "default_parameter"
	KindTypedDefaultParameter    = "typed_default_parameter"
	KindListSplatParameter       = "list_splat_parameter"
	KindDictionarySplatParameter = "dictionary_splat_parameter"
	KindGlobalStatement          = "global_statement"
	KindNonlocalStatement        = "nonlocal_statement"
	KindExecStatement            = "exec_statement"
	KindClassDefinition          = "class_definition"
	KindArgumentList             = "argument_list"
	KindDecoratedDefinition      = "decorated_definition"
	KindDecorator                = "decorator"
	KindVariables                = "variables"
	KindExpressionList           = "expression_list"
	KindDottedName               = "dotted_name"
	KindNotOperator              = "not_operator"
	KindBooleanOperator          = "boolean_operator"
	KindBinaryOperator           = "binary_operator"
	KindUnaryOperator            = "unary_operator"
	KindComparisonOperator       = "comparison_operator"
	KindLambda                   = "lambda"
	KindLambdaWithinForInClause  = "lambda_within_for_in_clause"
	KindAssignment               = "assignment"
	KindAugmentedAssignment      = "augmented_assignment"
	KindYield                    = "yield"
	KindAttribute                = "attribute"
	KindSubscript                = "subscript"
	KindSlice                    = "slice"
	KindEllipsis                 = "ellipsis"
	KindCall                     = "call"
	KindTypedParameter           = "typed_parameter"
	KindType                     = "type"
	KindKeywordArgument          = "keyword_argument"
	KindListSplatArgument        = "list_splat_argument"
	KindDictionarySplatArgument  = "dictionary_splat_argument"
	KindList                     = "list"
	KindListComprehension        = "list_comprehension"
	KindDictionary               = "dictionary"
	KindDictionarySplat          = "dictionary_splat"
	KindDictionaryComprehension  = "dictionary_comprehension"
	KindPair                     = "pair"
	KindSet                      = "set"
	KindSetComprehension         = "set_comprehension"
	KindTuple                    = "tuple"
	KindGeneratorExpression      = "generator_expression"
	KindForInClause              = "for_in_clause"
	KindIfClause                 = "if_clause"
	KindConditionalExpression    = "conditional_expression"
	KindConcatenatedString       = "concatenated_string"
	KindTrue                     = "true"
	KindFalse                    = "false"
	KindNone                     = "none"
	KindAwait                    = "await"
	KindIdentifier               = "identifier"
	KindInteger                  = "integer"
	KindFloat                    = "float"
	KindString                   = "string"
	KindComment                  = "comment"
)

// Kinds lists every node kind constant, for checks against the grammar.
var Kinds = []string{
	KindModule,
	KindImportStatement,
	KindImportFromStatement,
	KindAliasedImport,
	KindWildcardImport,
	KindPrintStatement,
	KindChevron,
	KindAssertStatement,
	KindExpressionStatement,
	KindReturnStatement,
	KindDeleteStatement,
	KindRaiseStatement,
	KindPassStatement,
	KindBreakStatement,
	KindContinueStatement,
	KindIfStatement,
	KindElifClause,
	KindElseClause,
	KindForStatement,
	KindWhileStatement,
	KindTryStatement,
	KindExceptClause,
	KindFinallyClause,
	KindWithStatement,
	KindWithItem,
	KindAsyncFunctionDefinition,
	KindFunctionDefinition,
	KindParameters,
	KindLambdaParameters,
	KindDefaultParameter,
	KindTypedDefaultParameter,
	KindListSplatParameter,
	KindDictionarySplatParameter,
	KindGlobalStatement,
	KindNonlocalStatement,
	KindExecStatement,
	KindClassDefinition,
	KindArgumentList,
	KindDecoratedDefinition,
	KindDecorator,
	KindVariables,
	KindExpressionList,
	KindDottedName,
	KindNotOperator,
	KindBooleanOperator,
	KindBinaryOperator,
	KindUnaryOperator,
	KindComparisonOperator,
	KindLambda,
	KindLambdaWithinForInClause,
	KindAssignment,
	KindAugmentedAssignment,
	KindYield,
	KindAttribute,
	KindSubscript,
	KindSlice,
	KindEllipsis,
	KindCall,
	KindTypedParameter,
	KindType,
	KindKeywordArgument,
	KindListSplatArgument,
	KindDictionarySplatArgument,
	KindList,
	KindListComprehension,
	KindDictionary,
	KindDictionarySplat,
	KindDictionaryComprehension,
	KindPair,
	KindSet,
	KindSetComprehension,
	KindTuple,
	KindGeneratorExpression,
	KindForInClause,
	KindIfClause,
	KindConditionalExpression,
	KindConcatenatedString,
	KindTrue,
	KindFalse,
	KindNone,
	KindAwait,
	KindIdentifier,
	KindInteger,
	KindFloat,
	KindString,
	KindComment,
}
