package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	compressed, err := Compress([]string{"Number=Sing", "Case=Loc"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x25}, compressed)
}

func TestCompress_DropsIgnored(t *testing.T) {
	compressed, err := Compress([]string{
		"Case=Gen", "", "upos=ПРИСУДКОВЕ СЛОВО", "upos=NOUN",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0x61}, compressed)
}

func TestCompress_UnknownTag(t *testing.T) {
	_, err := Compress([]string{"Case=Nom", "Mood=Imp"})
	assert.ErrorIs(t, err, ErrUnknownTag)
	assert.Contains(t, err.Error(), "Mood=Imp")
}

func TestDecompress_CorruptRecord(t *testing.T) {
	for _, code := range []byte{0x00, 0x01, 0x6a, RecordSeparator,
		RecordTerminator} {
		_, err := Decompress([]byte{0x11, code})
		assert.ErrorIs(t, err, ErrCorruptRecord, "code 0x%02x", code)
	}
}

type RoundTripTest struct {
	Input    []string
	Expected []string
}

var RoundTripTests = []RoundTripTest{
	{[]string{}, []string{}},
	{[]string{"Number=Plur", "Case=Nom", "upos=NOUN"},
		[]string{"Number=Plur", "Case=Nom", "upos=NOUN"}},
	{[]string{"upos=<None>", "Case=Dat", "", "Gender=Fem"},
		[]string{"Case=Dat", "Gender=Fem"}},
	{[]string{"Case=Acc", "Case=Acc", "upos=NumType=Card"},
		[]string{"Case=Acc", "Case=Acc"}},
	{[]string{"upos=VERB", "VerbForm=Inf", "Person=0"},
		[]string{"upos=VERB", "VerbForm=Inf", "Person=0"}},
}

func TestRoundTrip(t *testing.T) {
	for _, test := range RoundTripTests {
		compressed, err := Compress(test.Input)
		require.NoError(t, err)
		decompressed, err := Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, test.Expected, decompressed)
	}
}

func TestEveryTagRoundTrips(t *testing.T) {
	for _, tag := range Tags() {
		code, ok := Code(tag)
		require.True(t, ok)
		assert.NotEqual(t, IgnoreCode, code)
		decompressed, err := Decompress([]byte{code})
		require.NoError(t, err)
		assert.Equal(t, []string{tag}, decompressed)
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("Case=Ins"))
	assert.True(t, Known(""))
	assert.True(t, Known("upos=СПОЛУКА"))
	assert.False(t, Known("Animacy=Anim"))
}

func TestValidateAndChecksum(t *testing.T) {
	require.NoError(t, Validate())
	assert.Equal(t, Checksum(), Checksum())
	assert.NotZero(t, Checksum())
}
