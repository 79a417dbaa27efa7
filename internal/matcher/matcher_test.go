package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Bom Dia", "bom dia"},
		{"strips accents", "Como você está?", "como voce esta"},
		{"strips punctuation", "Tudo bem?!", "tudo bem"},
		{"collapses whitespace", "  eu   gosto\tde  café ", "eu gosto de cafe"},
		{"keeps digits", "Tenho 2 gatos.", "tenho 2 gatos"},
		{"empty input", "", ""},
		{"only punctuation", "?!...", ""},
		{"cedilla folds to c", "coração", "coracao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Como você está?",
		"  Olá,   MUNDO!  ",
		"não sei",
		"",
		"abc 123",
	}

	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", s)
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "casa", "casa", 0},
		{"both empty", "", "", 0},
		{"empty left", "", "casa", 4},
		{"empty right", "casa", "", 4},
		{"single substitution", "casa", "cama", 1},
		{"single insertion", "casa", "casas", 1},
		{"single deletion", "casas", "casa", 1},
		{"kitten sitting", "kitten", "sitting", 3},
		{"multibyte runes", "ação", "acao", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditDistance(tt.a, tt.b))
		})
	}
}

func TestEditDistance_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"bom dia", "boa tarde"},
		{"obrigado", "obrigada"},
		{"", "oi"},
		{"eu gosto de cafe", "eu gosto de cha"},
	}

	for _, p := range pairs {
		assert.Equal(t, EditDistance(p[0], p[1]), EditDistance(p[1], p[0]),
			"distance must be symmetric for %q / %q", p[0], p[1])
	}
}

func TestEditDistance_TriangleInequality(t *testing.T) {
	triples := [][3]string{
		{"casa", "cama", "cana"},
		{"bom dia", "boa noite", "boa tarde"},
		{"", "oi", "olá"},
	}

	for _, tr := range triples {
		ab := EditDistance(tr[0], tr[1])
		bc := EditDistance(tr[1], tr[2])
		ac := EditDistance(tr[0], tr[2])
		assert.LessOrEqual(t, ac, ab+bc,
			"triangle inequality must hold for %v", tr)
	}
}

func TestTolerance(t *testing.T) {
	// Short answers still allow one typo, long ones scale at 15%.
	assert.Equal(t, 1, Tolerance("oi"))
	assert.Equal(t, 1, Tolerance("bom dia"))
	assert.Equal(t, 2, Tolerance("como voce esta")) // 14 runes -> floor(2.1)
	assert.Equal(t, 3, Tolerance("eu gosto muito de viajar")) // 24 runes -> floor(3.6)
	assert.Equal(t, 1, Tolerance(""))
}

func TestIsCloseEnough(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		expected  string
		want      bool
	}{
		{"exact match", "Como você está?", "Como você está?", true},
		{"accent dropped", "como voce esta", "Como você está?", true},
		{"one typo in short answer", "bon dia", "Bom dia", true},
		{"too many typos", "comoo vce sta", "Como você está?", false},
		{"wrong answer entirely", "boa noite", "Bom dia", false},
		{"empty candidate short expected", "", "Oi", false},
		{"case and punctuation ignored", "COMO VOCE ESTA", "Como você está?", true},
		{"transcription noise within tolerance", "como voce estaa", "Como você está?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCloseEnough(tt.candidate, tt.expected))
		})
	}
}

func TestIsCloseEnough_ExpectedAlwaysMatchesItself(t *testing.T) {
	for _, s := range []string{"Oi", "Como você está?", "não", "", "O que você fez hoje?"} {
		assert.True(t, IsCloseEnough(s, s), "expected answer must match itself: %q", s)
	}
}
