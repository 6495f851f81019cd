package grammar

import "sync"

// Precedence levels of the Python rule table. Higher binds tighter.
const (
	// A colon inside a lambda must never be read as a parameter annotation,
	// so lambda sits below typed parameters.
	PrecLambda         = -2
	PrecTypedParameter = -1
	PrecConditional    = -1

	PrecExpressionStatement = 1
	PrecNot                 = 1
	PrecParameter           = 1
	PrecCompare             = 2
	PrecOr                  = 10
	PrecAnd                 = 11
	PrecBitwiseOr           = 12
	PrecBitwiseAnd          = 13
	PrecXor                 = 14
	PrecShift               = 15
	PrecPlus                = 16
	PrecTimes               = 17
	PrecPower               = 18
	PrecUnary               = 19
	PrecCall                = 20
)

var (
	pythonOnce    sync.Once
	pythonGrammar *Grammar
)

// Python returns the compiled Python grammar. It is built once and shared
// read-only by every parse.
func Python() *Grammar {
	pythonOnce.Do(func() {
		pythonGrammar = MustCompile(PythonDefinition())
	})
	return pythonGrammar
}

// PythonDefinition returns a fresh copy of the Python grammar declaration.
func PythonDefinition() *Definition {
	return &Definition{
		Name:      "python",
		Start:     "module",
		Externals: []string{"_newline", "_indent", "_dedent"},
		Terminals: []string{"identifier", "integer", "float", "string", "comment"},
		Extras:    []string{"comment"},
		Inline:    []string{"_simple_statement", "_compound_statement", "keyword_identifier"},
		Conflicts: [][]string{
			{"_primary_expression", "print_statement"},
			{"_primary_expression", "exec_statement"},
		},
		Rules: pythonRules(),
	}
}

func binary(level int, op string) Expr {
	return PrecLeft(level, Seq(
		Field("left", Sym("_primary_expression")),
		Field("operator", Lit(op)),
		Field("right", Sym("_primary_expression")),
	))
}

func unary(op string) Expr {
	return Prec(PrecUnary, Seq(
		Field("operator", Lit(op)),
		Field("argument", Sym("_primary_expression")),
	))
}

func pythonRules() []Rule {
	return []Rule{
		{"module", Repeat(Sym("_statement"))},

		{"_statement", Choice(
			Sym("_simple_statements"),
			Sym("_compound_statement"),
		)},

		// Simple statements

		{"_simple_statements", Seq(
			Sym("_simple_statement"),
			Optional(Repeat(Seq(Sym("_semicolon"), Sym("_simple_statement")))),
			Optional(Sym("_semicolon")),
			Sym("_newline"),
		)},

		{"_simple_statement", Choice(
			Sym("import_statement"),
			Sym("import_from_statement"),
			Sym("print_statement"),
			Sym("assert_statement"),
			Sym("expression_statement"),
			Sym("return_statement"),
			Sym("delete_statement"),
			Sym("raise_statement"),
			Sym("pass_statement"),
			Sym("break_statement"),
			Sym("continue_statement"),
			Sym("global_statement"),
			Sym("nonlocal_statement"),
			Sym("exec_statement"),
		)},

		{"import_statement", Seq(
			Lit("import"),
			Sym("_import_list"),
		)},

		{"import_from_statement", Seq(
			Lit("from"),
			Choice(
				Seq(
					Repeat(Choice(Lit("."), Lit("..."))),
					Field("module_name", Sym("dotted_name")),
				),
				Repeat1(Choice(Lit("."), Lit("..."))),
			),
			Lit("import"),
			Choice(
				Sym("wildcard_import"),
				Sym("_import_list"),
				Seq(Lit("("), Sym("_import_list"), Lit(")")),
			),
		)},

		{"_import_list", Seq(
			CommaSep1(Field("name", Choice(
				Sym("dotted_name"),
				Sym("aliased_import"),
			))),
			Optional(Lit(",")),
		)},

		{"aliased_import", Seq(
			Field("name", Sym("dotted_name")),
			Lit("as"),
			Field("alias", Sym("identifier")),
		)},

		{"wildcard_import", Lit("*")},

		{"print_statement", Seq(
			Lit("print"),
			Choice(
				Sym("chevron"),
				Seq(
					Optional(Seq(Sym("chevron"), Lit(","))),
					Field("argument", Sym("expression_list")),
				),
				Field("argument", Sym("expression_list")),
			),
			Optional(Lit(",")),
		)},

		{"chevron", Seq(
			Lit(">>"),
			Sym("_expression"),
		)},

		{"assert_statement", Seq(
			Lit("assert"),
			Sym("expression_list"),
		)},

		{"expression_statement", Prec(PrecExpressionStatement, Choice(
			Sym("_expression"),
			Sym("expression_list"),
			Sym("assignment"),
			Sym("augmented_assignment"),
			Sym("yield"),
		))},

		{"return_statement", Seq(
			Lit("return"),
			Optional(Sym("expression_list")),
		)},

		{"delete_statement", Seq(
			Lit("del"),
			Sym("expression_list"),
		)},

		{"raise_statement", Seq(
			Lit("raise"),
			Optional(Sym("expression_list")),
			Optional(Seq(Lit("from"), Field("cause", Sym("_expression")))),
		)},

		{"pass_statement", Lit("pass")},
		{"break_statement", Lit("break")},
		{"continue_statement", Lit("continue")},

		// Compound statements

		{"_compound_statement", Choice(
			Sym("if_statement"),
			Sym("for_statement"),
			Sym("while_statement"),
			Sym("try_statement"),
			Sym("with_statement"),
			Sym("async_function_definition"),
			Sym("function_definition"),
			Sym("class_definition"),
			Sym("decorated_definition"),
		)},

		{"if_statement", Seq(
			Lit("if"),
			Field("condition", Sym("_expression")),
			Lit(":"),
			Field("body", Sym("_suite")),
			Repeat(Field("alternative", Sym("elif_clause"))),
			Optional(Field("alternative", Sym("else_clause"))),
		)},

		{"elif_clause", Seq(
			Lit("elif"),
			Field("condition", Sym("_expression")),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"else_clause", Seq(
			Lit("else"),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"for_statement", Seq(
			Lit("for"),
			Field("left", Sym("variables")),
			Lit("in"),
			Field("right", Sym("expression_list")),
			Lit(":"),
			Field("body", Sym("_suite")),
			Optional(Field("alternative", Sym("else_clause"))),
		)},

		{"while_statement", Seq(
			Lit("while"),
			Field("condition", Sym("_expression")),
			Lit(":"),
			Field("body", Sym("_suite")),
			Optional(Field("alternative", Sym("else_clause"))),
		)},

		{"try_statement", Seq(
			Lit("try"),
			Lit(":"),
			Field("body", Sym("_suite")),
			Choice(
				Seq(
					Repeat1(Sym("except_clause")),
					Optional(Sym("else_clause")),
					Optional(Sym("finally_clause")),
				),
				Sym("finally_clause"),
			),
		)},

		{"except_clause", Seq(
			Lit("except"),
			Optional(Seq(
				Sym("_expression"),
				Optional(Seq(
					Choice(Lit("as"), Lit(",")),
					Sym("_expression"),
				)),
			)),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"finally_clause", Seq(
			Lit("finally"),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"with_statement", Seq(
			Lit("with"),
			CommaSep1(Sym("with_item")),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"with_item", PrecRight(0, Seq(
			CommaSep1(Field("value", Sym("expression_statement"))),
			Optional(Seq(
				Lit("as"),
				Field("alias", Sym("expression_statement")),
			)),
		))},

		{"async_function_definition", Seq(
			Lit("async"),
			Sym("_function_definition"),
		)},

		{"function_definition", Sym("_function_definition")},

		{"_function_definition", Seq(
			Lit("def"),
			Field("name", Sym("identifier")),
			Field("parameters", Sym("parameters")),
			Optional(Seq(
				Lit("->"),
				Field("return_type", Sym("type")),
			)),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"parameters", Seq(
			Lit("("),
			Optional(Sym("_parameters")),
			Lit(")"),
		)},

		{"lambda_parameters", Sym("_parameters")},

		{"_parameters", Seq(
			CommaSep1(Choice(
				Sym("identifier"),
				Sym("tuple"),
				Sym("typed_parameter"),
				Sym("keyword_identifier"),
				Sym("default_parameter"),
				Sym("typed_default_parameter"),
				Sym("list_splat_parameter"),
				Sym("dictionary_splat_parameter"),
			)),
			Optional(Lit(",")),
		)},

		{"default_parameter", Seq(
			Field("name", Choice(Sym("identifier"), Sym("keyword_identifier"))),
			Lit("="),
			Field("value", Sym("_expression")),
		)},

		{"typed_default_parameter", Prec(PrecTypedParameter, Seq(
			Field("name", Choice(Sym("identifier"), Sym("keyword_identifier"))),
			Lit(":"),
			Field("type", Sym("type")),
			Lit("="),
			Field("value", Sym("_expression")),
		))},

		{"_list_splat_expression", Prec(PrecParameter, Seq(
			Lit("*"),
			Optional(Choice(
				Seq(Lit("("), Lit(")")),
				Optional(Sym("_expression")),
			)),
		))},

		{"_dictionary_splat_expression", Prec(PrecParameter, Seq(
			Lit("**"),
			Choice(
				Seq(Lit("{"), Lit("}")),
				Sym("_expression"),
			),
		))},

		{"list_splat_parameter", Sym("_list_splat_expression")},

		{"dictionary_splat_parameter", Sym("_dictionary_splat_expression")},

		{"global_statement", Seq(
			Lit("global"),
			CommaSep1(Sym("identifier")),
		)},

		{"nonlocal_statement", Seq(
			Lit("nonlocal"),
			CommaSep1(Sym("identifier")),
		)},

		{"exec_statement", Seq(
			Lit("exec"),
			Field("code", Sym("string")),
			Optional(Seq(
				Lit("in"),
				Sym("expression_list"),
			)),
		)},

		{"class_definition", Seq(
			Lit("class"),
			Field("name", Sym("identifier")),
			Optional(Field("superclasses", Sym("argument_list"))),
			Lit(":"),
			Field("body", Sym("_suite")),
		)},

		{"argument_list", Seq(
			Lit("("),
			Optional(CommaSep1(Choice(
				Sym("_expression"),
				Sym("keyword_argument"),
				Sym("list_splat_argument"),
				Sym("dictionary_splat_argument"),
			))),
			Optional(Lit(",")),
			Lit(")"),
		)},

		{"decorated_definition", Seq(
			Repeat1(Sym("decorator")),
			Field("definition", Choice(
				Sym("class_definition"),
				Sym("function_definition"),
				Sym("async_function_definition"),
			)),
		)},

		{"decorator", Seq(
			Lit("@"),
			Sym("dotted_name"),
			Optional(Sym("argument_list")),
			Sym("_newline"),
		)},

		// The scanner ends the header line with a NEWLINE before the INDENT
		// of an indented block.
		{"_suite", Choice(
			Sym("_simple_statements"),
			Seq(
				Sym("_newline"),
				Sym("_indent"),
				Repeat(Sym("_statement")),
				Sym("_dedent"),
			),
		)},

		{"variables", Seq(
			CommaSep1(Sym("_primary_expression")),
			Optional(Lit(",")),
		)},

		{"expression_list", PrecRight(0, Seq(
			CommaSep1(Sym("_expression")),
			Optional(Lit(",")),
		))},

		{"dotted_name", Sep1(Sym("identifier"), ".")},

		// Expressions

		// Expressions inside a for-in clause exclude the conditional
		// expression so that a trailing "if" starts an if_clause.
		{"_expression_within_for_in_clause", Prec(1, Choice(
			Sym("comparison_operator"),
			Sym("not_operator"),
			Sym("boolean_operator"),
			Sym("await"),
			Alias(Sym("lambda_within_for_in_clause"), "lambda"),
			Sym("_primary_expression"),
		))},

		{"_expression", Choice(
			Sym("comparison_operator"),
			Sym("not_operator"),
			Sym("boolean_operator"),
			Sym("await"),
			Sym("lambda"),
			Sym("_primary_expression"),
			Sym("conditional_expression"),
		)},

		{"_primary_expression", Choice(
			Sym("binary_operator"),
			Sym("identifier"),
			Sym("keyword_identifier"),
			Sym("string"),
			Sym("concatenated_string"),
			Sym("integer"),
			Sym("float"),
			Sym("true"),
			Sym("false"),
			Sym("none"),
			Sym("unary_operator"),
			Sym("attribute"),
			Sym("subscript"),
			Sym("call"),
			Sym("list"),
			Sym("list_comprehension"),
			Sym("dictionary"),
			Sym("dictionary_comprehension"),
			Sym("set"),
			Sym("set_comprehension"),
			Sym("tuple"),
			Sym("generator_expression"),
			Sym("ellipsis"),
		)},

		{"not_operator", Prec(PrecNot, Seq(
			Lit("not"),
			Field("argument", Sym("_expression")),
		))},

		{"boolean_operator", Choice(
			PrecLeft(PrecAnd, Seq(
				Field("left", Sym("_expression")),
				Field("operator", Lit("and")),
				Field("right", Sym("_expression")),
			)),
			PrecLeft(PrecOr, Seq(
				Field("left", Sym("_expression")),
				Field("operator", Lit("or")),
				Field("right", Sym("_expression")),
			)),
		)},

		{"binary_operator", Choice(
			binary(PrecPlus, "+"),
			binary(PrecPlus, "-"),
			binary(PrecTimes, "*"),
			binary(PrecTimes, "/"),
			binary(PrecTimes, "%"),
			binary(PrecTimes, "//"),
			binary(PrecPower, "**"),
			binary(PrecBitwiseOr, "|"),
			binary(PrecBitwiseAnd, "&"),
			binary(PrecXor, "^"),
			binary(PrecShift, "<<"),
			binary(PrecShift, ">>"),
		)},

		{"unary_operator", Choice(
			unary("-"),
			unary("+"),
			unary("~"),
		)},

		{"comparison_operator", PrecLeft(PrecCompare, Seq(
			Sym("_primary_expression"),
			Repeat1(Seq(
				Field("operators", Choice(
					Lit("<"),
					Lit("<="),
					Lit("=="),
					Lit("!="),
					Lit(">="),
					Lit(">"),
					Lit("<>"),
					Lit("in"),
					Seq(Lit("not"), Lit("in")),
					Lit("is"),
					Seq(Lit("is"), Lit("not")),
				)),
				Sym("_primary_expression"),
			)),
		))},

		{"lambda", Prec(PrecLambda, Seq(
			Lit("lambda"),
			Optional(Field("parameters", Sym("lambda_parameters"))),
			Lit(":"),
			Field("body", Sym("_expression")),
		))},

		{"lambda_within_for_in_clause", Seq(
			Lit("lambda"),
			Optional(Field("parameters", Sym("lambda_parameters"))),
			Lit(":"),
			Field("body", Sym("_expression_within_for_in_clause")),
		)},

		{"assignment", Seq(
			Field("left", Sym("expression_list")),
			Lit("="),
			Field("right", Sym("_right_hand_side")),
		)},

		{"augmented_assignment", Seq(
			Field("left", Sym("expression_list")),
			Field("operator", Choice(
				Lit("+="), Lit("-="), Lit("*="), Lit("/="), Lit("//="), Lit("%="),
				Lit("**="), Lit(">>="), Lit("<<="), Lit("&="), Lit("^="), Lit("|="),
			)),
			Field("right", Sym("_right_hand_side")),
		)},

		{"_right_hand_side", Choice(
			Sym("expression_list"),
			Sym("assignment"),
			Sym("augmented_assignment"),
			Sym("yield"),
		)},

		{"yield", Seq(
			Lit("yield"),
			Choice(
				Seq(
					Lit("from"),
					Sym("expression_statement"),
				),
				Optional(Sym("expression_list")),
			),
		)},

		{"attribute", Prec(PrecCall, Seq(
			Field("object", Sym("_primary_expression")),
			Lit("."),
			Field("attribute", Sym("identifier")),
		))},

		{"subscript", Prec(PrecCall, Seq(
			Field("value", Sym("_primary_expression")),
			Lit("["),
			CommaSep1(Field("subscript", Choice(Sym("_expression"), Sym("slice")))),
			Optional(Lit(",")),
			Lit("]"),
		))},

		{"slice", Seq(
			Optional(Sym("_expression")),
			Lit(":"),
			Optional(Sym("_expression")),
			Optional(Seq(Lit(":"), Optional(Sym("_expression")))),
		)},

		{"ellipsis", Lit("...")},

		{"call", Prec(PrecCall, Seq(
			Field("function", Sym("_primary_expression")),
			Field("arguments", Choice(
				Sym("generator_expression"),
				Sym("argument_list"),
			)),
		))},

		{"typed_parameter", Prec(PrecTypedParameter, Seq(
			Choice(
				Sym("identifier"),
				Sym("list_splat_parameter"),
				Sym("dictionary_splat_parameter"),
			),
			Lit(":"),
			Field("type", Sym("type")),
		))},

		{"type", Sym("_expression")},

		{"keyword_argument", Seq(
			Field("name", Choice(Sym("identifier"), Sym("keyword_identifier"))),
			Lit("="),
			Field("value", Sym("_expression")),
		)},

		{"list_splat_argument", Sym("_list_splat_expression")},

		{"dictionary_splat_argument", Sym("_dictionary_splat_expression")},

		// Literals

		{"list", Seq(
			Lit("["),
			Optional(CommaSep1(Sym("_expression"))),
			Optional(Lit(",")),
			Lit("]"),
		)},

		{"_comprehension_body", Seq(
			Sym("for_in_clause"),
			Repeat(Choice(
				Sym("for_in_clause"),
				Sym("if_clause"),
			)),
		)},

		{"list_comprehension", Seq(
			Lit("["),
			Field("body", Sym("_expression")),
			Sym("_comprehension_body"),
			Lit("]"),
		)},

		{"dictionary", Seq(
			Lit("{"),
			Optional(CommaSep1(Choice(Sym("pair"), Sym("dictionary_splat")))),
			Optional(Lit(",")),
			Lit("}"),
		)},

		{"dictionary_splat", Seq(
			Lit("**"),
			Sym("_expression"),
		)},

		{"dictionary_comprehension", Seq(
			Lit("{"),
			Field("body", Sym("pair")),
			Sym("_comprehension_body"),
			Lit("}"),
		)},

		{"pair", Seq(
			Field("key", Sym("_expression")),
			Lit(":"),
			Field("value", Sym("_expression")),
		)},

		{"set", Seq(
			Lit("{"),
			Seq(
				CommaSep1(Sym("_expression")),
				Optional(Lit(",")),
			),
			Lit("}"),
		)},

		{"set_comprehension", Seq(
			Lit("{"),
			Field("body", Sym("_expression")),
			Sym("_comprehension_body"),
			Lit("}"),
		)},

		{"tuple", Seq(
			Lit("("),
			CommaSep1(Sym("_expression")),
			Optional(Lit(",")),
			Lit(")"),
		)},

		{"generator_expression", Seq(
			Lit("("),
			Field("body", Sym("_expression")),
			Sym("_comprehension_body"),
			Lit(")"),
		)},

		{"for_in_clause", Seq(
			Lit("for"),
			Field("left", Sym("variables")),
			Lit("in"),
			CommaSep1(Field("right", Sym("_expression_within_for_in_clause"))),
			Optional(Lit(",")),
		)},

		{"if_clause", Seq(
			Lit("if"),
			Sym("_expression"),
		)},

		{"conditional_expression", PrecRight(PrecConditional, Seq(
			Sym("_expression"),
			Lit("if"),
			Sym("_expression"),
			Lit("else"),
			Sym("_expression"),
		))},

		{"concatenated_string", Seq(
			Sym("string"),
			Repeat1(Sym("string")),
		)},

		{"keyword_identifier", Alias(Choice(Lit("print"), Lit("exec")), "identifier")},

		{"true", Lit("True")},
		{"false", Lit("False")},
		{"none", Lit("None")},

		{"await", Prec(PrecUnary, Seq(
			Lit("await"),
			Sym("_expression"),
		))},

		{"_semicolon", Lit(";")},
	}
}
