package lox

type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

// ruleKind names one parse function. The rule table stores kinds rather
// than method values so it can be a plain package-level literal.
type ruleKind int

const (
	ruleNone ruleKind = iota
	ruleGrouping
	ruleUnary
	ruleBinary
	ruleNumber
	ruleString
	ruleLiteral
)

type parseRule struct {
	prefix ruleKind
	infix  ruleKind
	prec   precedence // binding power of the infix form
}

var rules = map[TokenType]parseRule{
	TokenLeftParen:    {prefix: ruleGrouping},
	TokenMinus:        {prefix: ruleUnary, infix: ruleBinary, prec: precTerm},
	TokenPlus:         {infix: ruleBinary, prec: precTerm},
	TokenSlash:        {infix: ruleBinary, prec: precFactor},
	TokenStar:         {infix: ruleBinary, prec: precFactor},
	TokenBang:         {prefix: ruleUnary},
	TokenBangEqual:    {infix: ruleBinary, prec: precEquality},
	TokenEqualEqual:   {infix: ruleBinary, prec: precEquality},
	TokenGreater:      {infix: ruleBinary, prec: precComparison},
	TokenGreaterEqual: {infix: ruleBinary, prec: precComparison},
	TokenLess:         {infix: ruleBinary, prec: precComparison},
	TokenLessEqual:    {infix: ruleBinary, prec: precComparison},
	TokenNumber:       {prefix: ruleNumber},
	TokenString:       {prefix: ruleString},
	TokenFalse:        {prefix: ruleLiteral},
	TokenTrue:         {prefix: ruleLiteral},
	TokenNil:          {prefix: ruleLiteral},
}

func getRule(tt TokenType) parseRule {
	return rules[tt]
}

// binaryOps lists the instructions each binary operator lowers to. The
// negated comparisons reuse the complementary opcode followed by NOT.
var binaryOps = map[TokenType][]Opcode{
	TokenPlus:         {OpAdd},
	TokenMinus:        {OpSubtract},
	TokenStar:         {OpMultiply},
	TokenSlash:        {OpDivide},
	TokenEqualEqual:   {OpEqual},
	TokenBangEqual:    {OpEqual, OpNot},
	TokenGreater:      {OpGreater},
	TokenGreaterEqual: {OpLess, OpNot},
	TokenLess:         {OpLess},
	TokenLessEqual:    {OpGreater, OpNot},
}
