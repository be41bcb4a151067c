package ws

import (
	"errors"
	"math/big"
	"testing"
)

// tok builds whitespace source from a readable transliteration:
// 's' is space, 't' is tab, 'n' is linefeed, everything else is dropped
// before Parse sees it, so spaces and '|' serve only as visual separators.
func tok(src string) []byte {
	var out []byte
	for _, r := range src {
		switch r {
		case 's':
			out = append(out, ' ')
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		default:
			// dropped: visual separators and comment markers
		}
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Instr
	}{
		{
			name: "push_output_end",
			src:  "ss stssssst n | tnss | nnn",
			want: []Instr{Push(65), OutputChar(), End()},
		},
		{
			name: "push_negative",
			src:  "ss t tt n nnn",
			want: []Instr{Push(-3), End()},
		},
		{
			name: "push_zero_empty_digits",
			src:  "ss sn nnn",
			want: []Instr{Push(0), End()},
		},
		{
			name: "stack_ops",
			src:  "sns snt snn nnn",
			want: []Instr{Dup(), Swap(), Discard(), End()},
		},
		{
			name: "copy_slide",
			src:  "sts stsn stn stn nnn",
			want: []Instr{Copy(2), Slide(1), End()},
		},
		{
			name: "arith",
			src:  "tsss tsst tssn tsts tstt nnn",
			want: []Instr{
				Arith(Add), Arith(Sub), Arith(Mul), Arith(Div), Arith(Mod), End(),
			},
		},
		{
			name: "heap",
			src:  "tts ttt nnn",
			want: []Instr{Store(), Retrieve(), End()},
		},
		{
			name: "flow",
			src:  "nss stn | nst stn | nsn stn | nts stn | ntt stn | ntn nnn",
			want: []Instr{
				Label("01"), Call("01"), Jump("01"),
				Branch(CondZero, "01"), Branch(CondNeg, "01"),
				Return(), End(),
			},
		},
		{
			name: "io",
			src:  "tnss tnst tnts tntt nnn",
			want: []Instr{
				OutputChar(), OutputNum(), InputChar(), InputNum(), End(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tok(tt.src))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsed %d instructions, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !sameInstr(got[i], tt.want[i]) {
					t.Fatalf("instruction %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func sameInstr(a, b Instr) bool {
	if a.Op != b.Op || a.Depth != b.Depth || a.Arith != b.Arith ||
		a.Cond != b.Cond || a.Label != b.Label {
		return false
	}
	if (a.Num == nil) != (b.Num == nil) {
		return false
	}
	if a.Num != nil && a.Num.Cmp(b.Num) != 0 {
		return false
	}
	return true
}

func TestParseTruncatedInput(t *testing.T) {
	tests := []string{
		"s",      // bare IMP
		"ss s",   // number missing terminator
		"nss st", // label missing terminator
		"tn",     // io command cut short
	}
	for _, src := range tests {
		if _, err := Parse(tok(src)); !errors.Is(err, ErrSyntax) {
			t.Fatalf("Parse(%q) error = %v, want ErrSyntax", src, err)
		}
	}
}

func TestParseBigNumber(t *testing.T) {
	// 2^40: a one followed by forty zero bits.
	src := "ss s t"
	for i := 0; i < 40; i++ {
		src += "s"
	}
	src += "n nnn"
	got, err := Parse(tok(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 40)
	if got[0].Num.Cmp(want) != 0 {
		t.Fatalf("parsed %s, want %s", got[0].Num, want)
	}
}
