package lexer

import "sort"

// keywords is the sorted reserved word table for binary search.
// IMPORTANT: This slice MUST remain sorted by text in byte order.
// Reserved words that never change how a design unit is parsed share
// TokKwOther; their text is recovered from the token span.
var keywords = []struct {
	text string
	kind TokenKind
}{
	{"accept_on", TokKwOther},
	{"alias", TokKwOther},
	{"always", TokKwAlways},
	{"always_comb", TokKwAlwaysComb},
	{"always_ff", TokKwAlwaysFF},
	{"always_latch", TokKwAlwaysLatch},
	{"and", TokKwOther},
	{"assert", TokKwOther},
	{"assign", TokKwAssign},
	{"assume", TokKwOther},
	{"automatic", TokKwAutomatic},
	{"before", TokKwOther},
	{"begin", TokKwBegin},
	{"bind", TokKwBind},
	{"bins", TokKwOther},
	{"binsof", TokKwOther},
	{"bit", TokKwVectorType},
	{"break", TokKwOther},
	{"buf", TokKwOther},
	{"bufif0", TokKwOther},
	{"bufif1", TokKwOther},
	{"byte", TokKwAtomType},
	{"case", TokKwCase},
	{"casex", TokKwCase},
	{"casez", TokKwCase},
	{"cell", TokKwOther},
	{"chandle", TokKwOther},
	{"checker", TokKwChecker},
	{"class", TokKwClass},
	{"clocking", TokKwClocking},
	{"cmos", TokKwOther},
	{"config", TokKwConfig},
	{"const", TokKwConst},
	{"constraint", TokKwOther},
	{"context", TokKwOther},
	{"continue", TokKwOther},
	{"cover", TokKwOther},
	{"covergroup", TokKwCovergroup},
	{"coverpoint", TokKwOther},
	{"cross", TokKwOther},
	{"deassign", TokKwOther},
	{"default", TokKwDefault},
	{"defparam", TokKwDefparam},
	{"design", TokKwOther},
	{"disable", TokKwOther},
	{"dist", TokKwOther},
	{"do", TokKwDo},
	{"edge", TokKwOther},
	{"else", TokKwElse},
	{"end", TokKwEnd},
	{"endcase", TokKwEndcase},
	{"endchecker", TokKwEndchecker},
	{"endclass", TokKwEndclass},
	{"endclocking", TokKwEndclocking},
	{"endconfig", TokKwEndconfig},
	{"endfunction", TokKwEndfunction},
	{"endgenerate", TokKwEndgenerate},
	{"endgroup", TokKwEndgroup},
	{"endinterface", TokKwEndinterface},
	{"endmodule", TokKwEndmodule},
	{"endpackage", TokKwEndpackage},
	{"endprimitive", TokKwEndprimitive},
	{"endprogram", TokKwEndprogram},
	{"endproperty", TokKwEndproperty},
	{"endsequence", TokKwEndsequence},
	{"endspecify", TokKwEndspecify},
	{"endtable", TokKwEndtable},
	{"endtask", TokKwEndtask},
	{"enum", TokKwEnum},
	{"event", TokKwOther},
	{"eventually", TokKwOther},
	{"expect", TokKwOther},
	{"export", TokKwExport},
	{"extends", TokKwOther},
	{"extern", TokKwOther},
	{"final", TokKwFinal},
	{"first_match", TokKwOther},
	{"for", TokKwFor},
	{"force", TokKwOther},
	{"foreach", TokKwForeach},
	{"forever", TokKwForever},
	{"fork", TokKwFork},
	{"forkjoin", TokKwOther},
	{"function", TokKwFunction},
	{"generate", TokKwGenerate},
	{"genvar", TokKwGenvar},
	{"global", TokKwOther},
	{"highz0", TokKwOther},
	{"highz1", TokKwOther},
	{"if", TokKwIf},
	{"iff", TokKwOther},
	{"ifnone", TokKwOther},
	{"ignore_bins", TokKwOther},
	{"illegal_bins", TokKwOther},
	{"implements", TokKwOther},
	{"implies", TokKwOther},
	{"import", TokKwImport},
	{"incdir", TokKwOther},
	{"include", TokKwOther},
	{"initial", TokKwInitial},
	{"inout", TokKwInout},
	{"input", TokKwInput},
	{"inside", TokKwInside},
	{"instance", TokKwOther},
	{"int", TokKwAtomType},
	{"integer", TokKwAtomType},
	{"interconnect", TokKwOther},
	{"interface", TokKwInterface},
	{"intersect", TokKwOther},
	{"join", TokKwJoin},
	{"join_any", TokKwJoin},
	{"join_none", TokKwJoin},
	{"large", TokKwOther},
	{"let", TokKwLet},
	{"liblist", TokKwOther},
	{"library", TokKwOther},
	{"local", TokKwOther},
	{"localparam", TokKwLocalparam},
	{"logic", TokKwVectorType},
	{"longint", TokKwAtomType},
	{"macromodule", TokKwMacromodule},
	{"matches", TokKwOther},
	{"medium", TokKwOther},
	{"modport", TokKwModport},
	{"module", TokKwModule},
	{"nand", TokKwOther},
	{"negedge", TokKwOther},
	{"nettype", TokKwOther},
	{"new", TokKwOther},
	{"nexttime", TokKwOther},
	{"nmos", TokKwOther},
	{"nor", TokKwOther},
	{"noshowcancelled", TokKwOther},
	{"not", TokKwOther},
	{"notif0", TokKwOther},
	{"notif1", TokKwOther},
	{"null", TokKwOther},
	{"or", TokKwOther},
	{"output", TokKwOutput},
	{"package", TokKwPackage},
	{"packed", TokKwPacked},
	{"parameter", TokKwParameter},
	{"pmos", TokKwOther},
	{"posedge", TokKwOther},
	{"primitive", TokKwPrimitive},
	{"priority", TokKwUniquePriority},
	{"program", TokKwProgram},
	{"property", TokKwProperty},
	{"protected", TokKwOther},
	{"pull0", TokKwOther},
	{"pull1", TokKwOther},
	{"pulldown", TokKwOther},
	{"pullup", TokKwOther},
	{"pulsestyle_ondetect", TokKwOther},
	{"pulsestyle_onevent", TokKwOther},
	{"pure", TokKwOther},
	{"rand", TokKwOther},
	{"randc", TokKwOther},
	{"randcase", TokKwCase},
	{"randsequence", TokKwOther},
	{"rcmos", TokKwOther},
	{"real", TokKwRealType},
	{"realtime", TokKwRealType},
	{"ref", TokKwRef},
	{"reg", TokKwVectorType},
	{"reject_on", TokKwOther},
	{"release", TokKwOther},
	{"repeat", TokKwRepeat},
	{"restrict", TokKwOther},
	{"return", TokKwOther},
	{"rnmos", TokKwOther},
	{"rpmos", TokKwOther},
	{"rtran", TokKwOther},
	{"rtranif0", TokKwOther},
	{"rtranif1", TokKwOther},
	{"s_always", TokKwOther},
	{"s_eventually", TokKwOther},
	{"s_nexttime", TokKwOther},
	{"s_until", TokKwOther},
	{"s_until_with", TokKwOther},
	{"scalared", TokKwOther},
	{"sequence", TokKwSequence},
	{"shortint", TokKwAtomType},
	{"shortreal", TokKwRealType},
	{"showcancelled", TokKwOther},
	{"signed", TokKwSigning},
	{"small", TokKwOther},
	{"soft", TokKwOther},
	{"solve", TokKwOther},
	{"specify", TokKwSpecify},
	{"specparam", TokKwOther},
	{"static", TokKwStatic},
	{"string", TokKwString},
	{"strong", TokKwOther},
	{"strong0", TokKwOther},
	{"strong1", TokKwOther},
	{"struct", TokKwStruct},
	{"super", TokKwOther},
	{"supply0", TokKwNetType},
	{"supply1", TokKwNetType},
	{"sync_accept_on", TokKwOther},
	{"sync_reject_on", TokKwOther},
	{"table", TokKwTable},
	{"tagged", TokKwOther},
	{"task", TokKwTask},
	{"this", TokKwOther},
	{"throughout", TokKwOther},
	{"time", TokKwAtomType},
	{"timeprecision", TokKwOther},
	{"timeunit", TokKwOther},
	{"tran", TokKwOther},
	{"tranif0", TokKwOther},
	{"tranif1", TokKwOther},
	{"tri", TokKwNetType},
	{"tri0", TokKwNetType},
	{"tri1", TokKwNetType},
	{"triand", TokKwNetType},
	{"trior", TokKwNetType},
	{"trireg", TokKwNetType},
	{"type", TokKwType},
	{"typedef", TokKwTypedef},
	{"union", TokKwUnion},
	{"unique", TokKwUniquePriority},
	{"unique0", TokKwUniquePriority},
	{"unsigned", TokKwSigning},
	{"until", TokKwOther},
	{"until_with", TokKwOther},
	{"untyped", TokKwOther},
	{"use", TokKwOther},
	{"uwire", TokKwNetType},
	{"var", TokKwVar},
	{"vectored", TokKwOther},
	{"virtual", TokKwVirtual},
	{"void", TokKwOther},
	{"wait", TokKwWait},
	{"wait_order", TokKwOther},
	{"wand", TokKwNetType},
	{"weak", TokKwOther},
	{"weak0", TokKwOther},
	{"weak1", TokKwOther},
	{"while", TokKwWhile},
	{"wildcard", TokKwOther},
	{"wire", TokKwNetType},
	{"with", TokKwOther},
	{"within", TokKwOther},
	{"wor", TokKwNetType},
	{"xnor", TokKwOther},
	{"xor", TokKwOther},
}

// LookupKeyword returns the token kind for a reserved word.
func LookupKeyword(text string) (TokenKind, bool) {
	idx := sort.Search(len(keywords), func(i int) bool {
		return keywords[i].text >= text
	})
	if idx < len(keywords) && keywords[idx].text == text {
		return keywords[idx].kind, true
	}
	return TokError, false
}

// keywordText returns the first reserved word spelled with the given kind.
func keywordText(kind TokenKind) (string, bool) {
	if kind == TokKwOther {
		return "", false
	}
	for _, kw := range keywords {
		if kw.kind == kind {
			return kw.text, true
		}
	}
	return "", false
}

// directives are compiler directives whose line is discarded by the lexer.
// Conditional compilation directives are dropped together with their macro
// name, so every branch is scanned.
var directives = map[string]bool{
	"begin_keywords":          true,
	"celldefine":              true,
	"default_decay_time":      true,
	"default_nettype":         true,
	"default_trireg_strength": true,
	"define":                  true,
	"delay_mode_distributed":  true,
	"delay_mode_path":         true,
	"delay_mode_unit":         true,
	"delay_mode_zero":         true,
	"else":                    true,
	"elsif":                   true,
	"end_keywords":            true,
	"endcelldefine":           true,
	"endif":                   true,
	"ifdef":                   true,
	"ifndef":                  true,
	"include":                 true,
	"line":                    true,
	"nounconnected_drive":     true,
	"pragma":                  true,
	"resetall":                true,
	"timescale":               true,
	"unconnected_drive":       true,
	"undef":                   true,
	"undefineall":             true,
}

// IsDirective returns true if name (without the backtick) is a compiler
// directive rather than a macro usage.
func IsDirective(name string) bool {
	return directives[name]
}
