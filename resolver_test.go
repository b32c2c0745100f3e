package uk_stress

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/uk_stress/compiler"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tags"
	"github.com/wbrown/uk_stress/types"
)

const testLexicon = `form,type,tag
по́ми́лка,іменник жіночого роду,однина називний
ма́ма,іменник жіночого роду,однина називний
а́тласи,іменник,множина називний
атла́си,іменник,однина родовий
за́мок,іменник чоловічого роду,однина називний
замо́к,іменник чоловічого роду,однина називний
украї́на,власна назва жіночого роду,однина називний
Ма́ра,власна назва жіночого роду,однина називний
мара́,іменник жіночого роду,однина називний
Ки́їв,власна назва чоловічого роду,однина називний
ки́їв,іменник чоловічого роду,однина називний
`

var (
	testDictOnce  sync.Once
	testDictBytes []byte
	testDictErr   error
)

// compiledDictionary returns the bytes of testLexicon, compiled once.
func compiledDictionary(t testing.TB) []byte {
	testDictOnce.Do(func() {
		var buf bytes.Buffer
		_, testDictErr = compiler.Compile(strings.NewReader(testLexicon),
			&buf)
		testDictBytes = buf.Bytes()
	})
	require.NoError(t, testDictErr)
	return testDictBytes
}

func testDictionary(t testing.TB) *dictionary.Dictionary {
	dict, err := dictionary.FromBytes(compiledDictionary(t))
	require.NoError(t, err)
	return dict
}

func testResolver(t testing.TB, opts ...Option) *Resolver {
	resolver, err := NewResolver(testDictionary(t), opts...)
	require.NoError(t, err)
	return resolver
}

// mapLookup serves raw records from memory.
type mapLookup map[string][]byte

func (m mapLookup) Get(key string) ([]byte, bool) {
	value, ok := m[key]
	return value, ok
}

func resolve(t *testing.T, resolver *Resolver,
	parse types.ParseToken) types.AccentPattern {
	accents, err := resolver.FindAccentPositions(parse)
	require.NoError(t, err)
	return accents
}

func TestResolver_Unambiguous(t *testing.T) {
	resolver := testResolver(t)
	// Tags are irrelevant to words with a single pattern.
	for _, parse := range []types.ParseToken{
		{ID: 3, Text: "помилка"},
		{ID: 3, Text: "помилка", UPOS: "VERB", Feats: "Case=Dat|Number=Plur"},
		{ID: 3, Text: "помилка", UPOS: "NOUN", Feats: "Case=Nom|Number=Sing"},
	} {
		assert.Equal(t, types.AccentPattern{2, 4}, resolve(t, resolver, parse))
	}
}

func TestResolver_Miss(t *testing.T) {
	resolver := testResolver(t)
	accents, err := resolver.FindAccentPositions(
		types.ParseToken{ID: 1, Text: "собака"})
	require.NoError(t, err)
	assert.Empty(t, accents)
	assert.NotNil(t, accents)
}

func TestResolver_MatchesTags(t *testing.T) {
	resolver := testResolver(t)
	nomPlur := types.ParseToken{ID: 2, Text: "атласи", UPOS: "NOUN",
		Feats: "Animacy=Inan|Case=Nom|Number=Plur"}
	genSing := types.ParseToken{ID: 2, Text: "атласи", UPOS: "NOUN",
		Feats: "Animacy=Inan|Case=Gen|Number=Sing"}
	assert.Equal(t, types.AccentPattern{1}, resolve(t, resolver, nomPlur))
	assert.Equal(t, types.AccentPattern{4}, resolve(t, resolver, genSing))
}

func TestResolver_Policies(t *testing.T) {
	// The parse carries no tags, so nothing can be disambiguated.
	bare := types.ParseToken{ID: 2, Text: "атласи"}
	assert.Empty(t, resolve(t, testResolver(t, WithPolicy(Skip)), bare))
	assert.Equal(t, types.AccentPattern{1},
		resolve(t, testResolver(t, WithPolicy(First)), bare))
	assert.Equal(t, types.AccentPattern{1, 4},
		resolve(t, testResolver(t, WithPolicy(All)), bare))
	// Skip is the default.
	assert.Empty(t, resolve(t, testResolver(t), bare))
}

func TestResolver_Homograph(t *testing.T) {
	// Both readings carry the same tags, so a full match still leaves two
	// patterns.
	parse := types.ParseToken{ID: 2, Text: "замок", UPOS: "NOUN",
		Feats: "Case=Nom|Gender=Masc|Number=Sing"}
	assert.Empty(t, resolve(t, testResolver(t), parse))
	assert.Equal(t, types.AccentPattern{2},
		resolve(t, testResolver(t, WithPolicy(First)), parse))
	assert.Equal(t, types.AccentPattern{2, 4},
		resolve(t, testResolver(t, WithPolicy(All)), parse))
}

func TestResolver_Custom(t *testing.T) {
	var received []types.Candidate
	var receivedParse types.ParseToken
	handler := func(candidates []types.Candidate,
		parse types.ParseToken) types.AccentPattern {
		received = candidates
		receivedParse = parse
		return candidates[len(candidates)-1].Accents
	}
	resolver := testResolver(t, WithPolicy(Custom(handler)))
	parse := types.ParseToken{ID: 4, Text: "замок", UPOS: "NOUN",
		Feats: "Case=Nom|Gender=Masc|Number=Sing"}
	assert.Equal(t, types.AccentPattern{4}, resolve(t, resolver, parse))
	assert.Len(t, received, 2)
	assert.Equal(t, parse, receivedParse)

	// A handler is not consulted for resolvable words.
	received = nil
	resolve(t, resolver, types.ParseToken{ID: 1, Text: "мама"})
	assert.Nil(t, received)

	_, err := NewResolver(testDictionary(t), WithPolicy(Custom(nil)))
	assert.Error(t, err)
}

func TestResolver_SentenceInitialLowercase(t *testing.T) {
	resolver := testResolver(t)
	expected := types.AccentPattern{5}
	assert.Equal(t, expected,
		resolve(t, resolver, types.ParseToken{ID: 1, Text: "україна"}))
	assert.Equal(t, expected,
		resolve(t, resolver, types.ParseToken{ID: 1, Text: "Україна"}))
	assert.Equal(t, expected,
		resolve(t, resolver, types.ParseToken{ID: 7, Text: "УКРАЇНА"}))
}

func TestResolver_SentenceInitialMerge(t *testing.T) {
	// Mid-sentence, the exact spelling wins.
	mid := types.ParseToken{ID: 2, Text: "Мара"}
	assert.Equal(t, types.AccentPattern{2},
		resolve(t, testResolver(t), mid))

	// At the start of a sentence, the lowercase word is a candidate too.
	initial := types.ParseToken{ID: 1, Text: "Мара"}
	assert.Empty(t, resolve(t, testResolver(t), initial))
	assert.Equal(t, types.AccentPattern{2, 4},
		resolve(t, testResolver(t, WithPolicy(All)), initial))

	// A word looked up on its own is not sentence-initial.
	assert.Equal(t, types.AccentPattern{2},
		resolve(t, testResolver(t), types.WordToken("Мара", "", "")))

	// Both spellings with identical stress collapse into one.
	candidates, found, err := testResolver(t).Candidates(
		types.ParseToken{ID: 1, Text: "Київ"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, candidates, 1)
	assert.Equal(t, types.AccentPattern{2},
		resolve(t, testResolver(t), types.ParseToken{ID: 1, Text: "Київ"}))
}

func TestResolver_PenaltyTolerance(t *testing.T) {
	// Number is missing, so the best candidate misses one tag.
	parse := types.ParseToken{ID: 2, Text: "атласи", UPOS: "NOUN",
		Feats: "Case=Nom"}
	assert.Equal(t, types.AccentPattern{1},
		resolve(t, testResolver(t), parse))
	assert.Empty(t, resolve(t,
		testResolver(t, WithPenaltyTolerance(0)), parse))
	assert.Equal(t, types.AccentPattern{1, 4}, resolve(t,
		testResolver(t, WithPenaltyTolerance(0), WithPolicy(All)), parse))

	_, err := NewResolver(testDictionary(t), WithPenaltyTolerance(-1))
	assert.Error(t, err)
}

func TestResolver_ProperNounsMatchNouns(t *testing.T) {
	feats := features(types.ParseToken{UPOS: "PROPN",
		Feats: "Case=Nom|Number=Sing"})
	assert.True(t, feats["upos=NOUN"])
	assert.False(t, feats["upos=PROPN"])
	assert.True(t, feats["Case=Nom"])

	parse := types.ParseToken{ID: 2, Text: "атласи", UPOS: "PROPN",
		Feats: "Case=Gen|Number=Sing"}
	assert.Equal(t, types.AccentPattern{4},
		resolve(t, testResolver(t), parse))
}

func TestResolver_CorruptRecord(t *testing.T) {
	resolver, err := NewResolver(mapLookup{
		"слово": {2, tags.RecordSeparator, 0x99, tags.RecordTerminator},
	})
	require.NoError(t, err)
	_, err = resolver.FindAccentPositions(types.ParseToken{ID: 1,
		Text: "слово"})
	assert.ErrorIs(t, err, tags.ErrCorruptRecord)
}

func TestResolver_LacksAccents(t *testing.T) {
	resolver, err := NewResolver(mapLookup{"слово": {}})
	require.NoError(t, err)
	assert.Empty(t, resolve(t, resolver,
		types.ParseToken{ID: 1, Text: "слово"}))
}

func TestResolver_Deterministic(t *testing.T) {
	resolver := testResolver(t, WithPolicy(First))
	parse := types.ParseToken{ID: 1, Text: "Замок"}
	first := resolve(t, resolver, parse)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, resolve(t, resolver, parse))
	}
	hits, misses := resolver.CacheStats()
	assert.Positive(t, hits)
	assert.Positive(t, misses)

	uncached := testResolver(t, WithPolicy(First), WithCacheSize(0))
	assert.Equal(t, first, resolve(t, uncached, parse))
	hits, misses = uncached.CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestResolver_ReturnsCopies(t *testing.T) {
	resolver := testResolver(t)
	parse := types.ParseToken{ID: 2, Text: "помилка"}
	accents := resolve(t, resolver, parse)
	accents[0] = 99
	assert.Equal(t, types.AccentPattern{2, 4}, resolve(t, resolver, parse))
}

func TestResolver_CustomResultsAreCopies(t *testing.T) {
	handler := func(candidates []types.Candidate,
		parse types.ParseToken) types.AccentPattern {
		candidates[1].Tags[0] = "Case=Voc"
		return candidates[0].Accents
	}
	resolver := testResolver(t, WithPolicy(Custom(handler)))
	parse := types.ParseToken{ID: 2, Text: "замок"}
	accents := resolve(t, resolver, parse)
	require.Equal(t, types.AccentPattern{2}, accents)
	accents[0] = 99
	assert.Equal(t, types.AccentPattern{2}, resolve(t, resolver, parse))

	candidates, found, err := resolver.Candidates(parse)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, candidates, 2)
	assert.NotContains(t, candidates[1].Tags, "Case=Voc")
	candidates[0].Accents[0] = 77
	candidates[1].Tags[0] = "Case=Voc"
	candidates, _, err = resolver.Candidates(parse)
	require.NoError(t, err)
	assert.Equal(t, types.AccentPattern{2}, candidates[0].Accents)
	assert.NotContains(t, candidates[1].Tags, "Case=Voc")
	assert.Equal(t, types.AccentPattern{2}, resolve(t, resolver, parse))
}

func TestResolver_TitleCaseLookup(t *testing.T) {
	// The key exists only in title case, so the third spelling is reached.
	resolver, err := NewResolver(mapLookup{"Львів": {2}})
	require.NoError(t, err)
	for _, text := range []string{"ЛЬВІВ", "львів", "Львів"} {
		assert.Equal(t, types.AccentPattern{2}, resolve(t, resolver,
			types.ParseToken{ID: 3, Text: text}), text)
	}
	assert.Equal(t, []string{"ЛЬВІВ", "львів", "Львів"}, casings("ЛЬВІВ"))
}

func TestParsePolicy(t *testing.T) {
	for name, expected := range map[string]Policy{
		"skip": Skip, "": Skip, "First": First, "all": All,
	} {
		policy, err := ParsePolicy(name)
		require.NoError(t, err)
		assert.Equal(t, expected.String(), policy.String())
	}
	_, err := ParsePolicy("random")
	assert.Error(t, err)
	assert.Equal(t, "custom", Custom(nil).String())
}
