package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/types"
)

const testLexicon = `form,type,tag
по́ми́лка,іменник жіночого роду,однина називний
а́тласи,іменник чоловічого роду,множина називний
атла́си,іменник чоловічого роду,однина родовий
атла́си,іменник чоловічого роду,однина родовий
ма́ма,іменник жіночого роду,однина називний
ма́ма,іменник жіночого роду,однина кличний
́озеро,іменник,однина називний
та́к,частка,
читати,дієслово,Інфінітив
`

func TestAccentPositions(t *testing.T) {
	assert.Equal(t, types.AccentPattern{2, 4}, AccentPositions("по́ми́лка"))
	assert.Equal(t, types.AccentPattern{1}, AccentPositions("а́тласи"))
	assert.Empty(t, AccentPositions("мама"))
}

func TestStripAccent(t *testing.T) {
	assert.Equal(t, "помилка", StripAccent("по́ми́лка"))
	assert.Equal(t, "мама", StripAccent("мама"))
}

type ValidateTest struct {
	Form     string
	Expected Reason
}

var ValidateTests = []ValidateTest{
	{"ма́ма", Valid},
	{"по́ми́лка", Valid},
	{"\u0301мама", AtStart},
	{"мам\u0301а", NotAfterVowel},
	{"мама", Unmarked},
	{"так", TooFewVowels},
	{"та́к", TooFewVowels},
	{"Ї́жак", Valid},
	{strings.Repeat("а", 300) + "\u0301", OffsetOverflow},
}

func TestValidateStress(t *testing.T) {
	for _, test := range ValidateTests {
		assert.Equal(t, test.Expected, ValidateStress(test.Form), test.Form)
	}
}

func TestParseTags(t *testing.T) {
	tagList, err := ParseTags("однина місцевий")
	require.NoError(t, err)
	assert.Equal(t, []string{"Number=Sing", "Case=Loc"}, tagList)

	tagList, err = ParseTags("пасивний дієприкметник")
	require.NoError(t, err)
	assert.Empty(t, tagList)

	tagList, err = ParseTags("")
	require.NoError(t, err)
	assert.Empty(t, tagList)

	_, err = ParseTags("наказовий спосіб")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParsePOS(t *testing.T) {
	tests := map[string][]string{
		"іменник чоловічого роду":              {"upos=NOUN", "Gender=Masc"},
		"іменник чоловічого або жіночого роду": {"upos=NOUN"},
		"власна назва жіночого роду":           {"upos=NOUN", "Gender=Fem"},
		"прикметник":                           {"upos=ADJ"},
		"UNK":                                  {},
		"присудкове слово":                     {"upos=ПРИСУДКОВЕ СЛОВО"},
	}
	for description, expected := range tests {
		tagList, err := ParsePOS(description)
		require.NoError(t, err, description)
		assert.Equal(t, expected, tagList, description)
	}

	_, err := ParsePOS("службове слово")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParseRow_GrammarFirst(t *testing.T) {
	tagList, err := ParseRow(Row{Type: "іменник", Tag: "множина називний"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Number=Plur", "Case=Nom", "upos=NOUN"},
		tagList)
}

func TestReadLexicon(t *testing.T) {
	lexicon := "tag,form,type,extra\nоднина називний,ма́ма,іменник,x\n"
	rows := make([]Row, 0)
	require.NoError(t, ReadLexicon(strings.NewReader(lexicon),
		func(row Row) error {
			rows = append(rows, row)
			return nil
		}))
	require.Len(t, rows, 1)
	assert.Equal(t, "ма́ма", rows[0].Form)
	assert.Equal(t, "іменник", rows[0].Type)
	assert.Equal(t, "однина називний", rows[0].Tag)
	assert.Equal(t, 2, rows[0].Line)

	err := ReadLexicon(strings.NewReader("form,type\nма́ма,іменник\n"),
		func(Row) error { return nil })
	assert.Error(t, err)
}

func compileFixture(t *testing.T, lexicon string) (*dictionary.Dictionary,
	*Report) {
	var buf bytes.Buffer
	report, err := Compile(strings.NewReader(lexicon), &buf)
	require.NoError(t, err)
	dict, err := dictionary.FromBytes(buf.Bytes())
	require.NoError(t, err)
	return dict, report
}

func TestCompile(t *testing.T) {
	dict, report := compileFixture(t, testLexicon)

	assert.Equal(t, 9, report.Rows)
	assert.Equal(t, 6, report.Accepted)
	assert.Equal(t, 1, report.Skipped[AtStart])
	assert.Equal(t, 1, report.Skipped[TooFewVowels])
	assert.Equal(t, 1, report.Skipped[Unmarked])
	assert.Equal(t, 3, report.Keys)
	assert.Equal(t, 1, report.Ambiguous)
	assert.Equal(t, 3, dict.Len())
	assert.Contains(t, report.String(), "9 rows read")

	value, ok := dict.Get("помилка")
	require.True(t, ok)
	assert.Equal(t, []byte{2, 4}, value)

	// Same pattern under different tags stays unambiguous.
	value, ok = dict.Get("мама")
	require.True(t, ok)
	assert.Equal(t, []byte{2}, value)

	seen, err := dict.Verify()
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
}

func TestCompile_Ambiguous(t *testing.T) {
	dict, _ := compileFixture(t, testLexicon)
	value, ok := dict.Get("атласи")
	require.True(t, ok)
	assert.True(t, dictionary.IsTagged(value))

	candidates, err := dictionary.DecodeRecord(value)
	require.NoError(t, err)
	// The repeated row is stored once.
	assert.Equal(t, []types.Candidate{
		{Tags: []string{"Number=Plur", "Case=Nom", "upos=NOUN",
			"Gender=Masc"}, Accents: types.AccentPattern{1}},
		{Tags: []string{"Number=Sing", "Case=Gen", "upos=NOUN",
			"Gender=Masc"}, Accents: types.AccentPattern{4}},
	}, candidates)
}

func TestCompile_OffsetZeroIsCounted(t *testing.T) {
	dict, report := compileFixture(t,
		"form,type,tag\n\u0301озеро,іменник,однина називний\n"+
			"ма́ма,іменник,однина називний\n")
	assert.Equal(t, 1, report.Skipped[AtStart])
	assert.Equal(t, 1, dict.Len())
	assert.False(t, dict.Contains("озеро"))
}

func TestCompile_Unparseable(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile(strings.NewReader(
		"form,type,tag\nма́ма,іменник,однина називний\n"+
			"чита́й,дієслово,наказовий спосіб\n"), &buf)
	assert.ErrorIs(t, err, ErrUnparseable)
	assert.Contains(t, err.Error(), "line 3")
	assert.Zero(t, buf.Len())
}
