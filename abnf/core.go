package abnf

import "github.com/dhamidi/abnfcst/grammar"

// Core returns the core rules of RFC 5234 appendix B.1. Each call returns
// a new grammar.
func Core() *grammar.Grammar {
	return table(
		def("ALPHA", alt(rng(0x41, 0x5A), rng(0x61, 0x7A))),
		def("BIT", alt(lit("0"), lit("1"))),
		def("CHAR", rng(0x01, 0x7F)),
		def("CR", val(0x0D)),
		def("CRLF", seq(ref("CR"), ref("LF"))),
		def("CTL", alt(rng(0x00, 0x1F), val(0x7F))),
		def("DIGIT", rng(0x30, 0x39)),
		def("DQUOTE", val(0x22)),
		def("HEXDIG", alt(ref("DIGIT"), lit("A"), lit("B"), lit("C"), lit("D"), lit("E"), lit("F"))),
		def("HTAB", val(0x09)),
		def("LF", val(0x0A)),
		def("LWSP", many(alt(ref("WSP"), seq(ref("CRLF"), ref("WSP"))))),
		def("OCTET", rng(0x00, 0xFF)),
		def("SP", val(0x20)),
		def("VCHAR", rng(0x21, 0x7E)),
		def("WSP", alt(ref("SP"), ref("HTAB"))),
	)
}

func table(prods ...*grammar.Production) *grammar.Grammar {
	g := grammar.New()
	for _, p := range prods {
		if err := g.Add(p); err != nil {
			panic(err)
		}
	}
	return g
}

func def(name string, e grammar.Expression) *grammar.Production {
	return &grammar.Production{Name: name, Expr: e}
}

func lit(s string) grammar.Expression { return grammar.Literal{Text: s} }

func val(rs ...rune) grammar.Expression {
	return grammar.Literal{Text: string(rs), CaseSensitive: true}
}

func rng(lo, hi rune) grammar.Expression { return grammar.Range{Lo: lo, Hi: hi} }

func ref(name string) grammar.Expression { return grammar.Ref{Name: name} }

func seq(es ...grammar.Expression) grammar.Expression { return grammar.Sequence(es) }

func alt(es ...grammar.Expression) grammar.Expression { return grammar.Alternative(es) }

func rep(lo, hi int, e grammar.Expression) grammar.Expression {
	return grammar.Repeat{Min: lo, Max: hi, Body: e}
}

func many(e grammar.Expression) grammar.Expression { return rep(0, -1, e) }

func opt(e grammar.Expression) grammar.Expression { return grammar.Option{Body: e} }
