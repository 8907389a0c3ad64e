package abnf

import (
	"sync"

	"github.com/dhamidi/abnfcst/grammar"
)

// Metagrammar returns the grammar of ABNF itself: RFC 5234 section 4 with
// the %s and %i prefixes of RFC 7405. Alternatives are ordered so that the
// first match is the right one ("=/" before "=", "n*m" before "n"), and
// lines may end in LF as well as CRLF.
func Metagrammar() *grammar.Grammar {
	cwsp := many(ref("c-wsp"))
	return table(
		def("rulelist", rep(1, -1, alt(ref("rule"), seq(cwsp, ref("c-nl"))))),
		def("rule", seq(ref("rulename"), ref("defined-as"), ref("elements"), ref("c-nl"))),
		def("rulename", seq(ref("ALPHA"), many(alt(ref("ALPHA"), ref("DIGIT"), lit("-"))))),
		def("defined-as", seq(cwsp, alt(lit("=/"), lit("=")), cwsp)),
		def("elements", seq(ref("alternation"), cwsp)),
		def("c-wsp", alt(ref("WSP"), seq(ref("c-nl"), ref("WSP")))),
		def("c-nl", alt(ref("comment"), ref("line-end"))),
		def("comment", seq(lit(";"), many(alt(ref("WSP"), ref("VCHAR"), rng(0x80, 0x10FFFF))), ref("line-end"))),
		def("line-end", alt(ref("CRLF"), ref("LF"))),
		def("alternation", seq(ref("concatenation"), many(seq(cwsp, lit("/"), cwsp, ref("concatenation"))))),
		def("concatenation", seq(ref("repetition"), many(seq(rep(1, -1, ref("c-wsp")), ref("repetition"))))),
		def("repetition", seq(opt(ref("repeat")), ref("element"))),
		def("repeat", alt(seq(many(ref("DIGIT")), lit("*"), many(ref("DIGIT"))), rep(1, -1, ref("DIGIT")))),
		def("element", alt(ref("rulename"), ref("group"), ref("option"), ref("char-val"), ref("num-val"), ref("prose-val"))),
		def("group", seq(lit("("), cwsp, ref("alternation"), cwsp, lit(")"))),
		def("option", seq(lit("["), cwsp, ref("alternation"), cwsp, lit("]"))),
		def("char-val", alt(ref("case-sensitive-string"), ref("case-insensitive-string"))),
		def("case-sensitive-string", seq(lit("%s"), ref("quoted-string"))),
		def("case-insensitive-string", seq(opt(lit("%i")), ref("quoted-string"))),
		def("quoted-string", seq(ref("DQUOTE"), many(alt(rng(0x20, 0x21), rng(0x23, 0x7E))), ref("DQUOTE"))),
		def("num-val", seq(lit("%"), alt(ref("bin-val"), ref("dec-val"), ref("hex-val")))),
		def("bin-val", numeric("b", "BIT")),
		def("dec-val", numeric("d", "DIGIT")),
		def("hex-val", numeric("x", "HEXDIG")),
		def("prose-val", seq(lit("<"), many(alt(rng(0x20, 0x3D), rng(0x3F, 0x7E))), lit(">"))),
	)
}

// numeric is prefix 1*digit [ 1*("." 1*digit) / ("-" 1*digit) ].
func numeric(prefix, digit string) grammar.Expression {
	digits := rep(1, -1, ref(digit))
	return seq(lit(prefix), digits, opt(alt(rep(1, -1, seq(lit("."), digits)), seq(lit("-"), digits))))
}

var metagrammar = sync.OnceValue(func() *grammar.Compiled {
	return grammar.MustCompile(Metagrammar().Merge(Core()))
})
