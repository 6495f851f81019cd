package grammar

// Assoc is the associativity attached to a precedence level.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Expr is one node of a rule body in the grammar declaration surface.
type Expr interface {
	isExpr()
}

// SymbolExpr references another rule or a named terminal.
type SymbolExpr struct {
	Name string
}

// LiteralExpr matches a single keyword or punctuation token by its spelling.
type LiteralExpr struct {
	Text string
}

// SeqExpr matches its members one after another.
type SeqExpr []Expr

// ChoiceExpr matches exactly one of its members. Members are ordered; the order
// is the last tie-break when more than one member derives the same input.
type ChoiceExpr []Expr

// RepeatExpr matches Body zero or more times, or one or more when AtLeastOne.
type RepeatExpr struct {
	Body       Expr
	AtLeastOne bool
}

// OptionalExpr matches Body or nothing.
type OptionalExpr struct {
	Body Expr
}

// PrecExpr attaches a precedence level and associativity to every alternative
// of Body that does not carry one of its own.
type PrecExpr struct {
	Level int
	Assoc Assoc
	Body  Expr
}

// AliasExpr renames the node produced by a single-symbol Body.
type AliasExpr struct {
	Body Expr
	Name string
}

// FieldExpr labels the children produced by Body with a field name.
type FieldExpr struct {
	Name string
	Body Expr
}

func (SymbolExpr) isExpr()   {}
func (LiteralExpr) isExpr()  {}
func (SeqExpr) isExpr()      {}
func (ChoiceExpr) isExpr()   {}
func (RepeatExpr) isExpr()   {}
func (OptionalExpr) isExpr() {}
func (PrecExpr) isExpr()     {}
func (AliasExpr) isExpr()    {}
func (FieldExpr) isExpr()    {}

func Sym(name string) Expr { return SymbolExpr{Name: name} }

func Lit(text string) Expr { return LiteralExpr{Text: text} }

func Seq(members ...Expr) Expr {
	if len(members) == 1 {
		return members[0]
	}
	return SeqExpr(members)
}

func Choice(members ...Expr) Expr {
	if len(members) == 1 {
		return members[0]
	}
	return ChoiceExpr(members)
}

func Repeat(body Expr) Expr { return RepeatExpr{Body: body} }

func Repeat1(body Expr) Expr { return RepeatExpr{Body: body, AtLeastOne: true} }

func Optional(body Expr) Expr { return OptionalExpr{Body: body} }

func Prec(level int, body Expr) Expr { return PrecExpr{Level: level, Body: body} }

func PrecLeft(level int, body Expr) Expr {
	return PrecExpr{Level: level, Assoc: AssocLeft, Body: body}
}

func PrecRight(level int, body Expr) Expr {
	return PrecExpr{Level: level, Assoc: AssocRight, Body: body}
}

func Alias(body Expr, name string) Expr { return AliasExpr{Body: body, Name: name} }

func Field(name string, body Expr) Expr { return FieldExpr{Name: name, Body: body} }

// Sep1 matches one or more occurrences of rule separated by sep.
func Sep1(rule Expr, sep string) Expr {
	return Seq(rule, Repeat(Seq(Lit(sep), rule)))
}

// CommaSep1 matches a non-empty comma separated list of rule.
func CommaSep1(rule Expr) Expr {
	return Sep1(rule, ",")
}
