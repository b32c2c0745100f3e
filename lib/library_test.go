//go:build cgo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/uk_stress/compiler"
)

const lexicon = `form,type,tag
ма́ма,іменник жіночого роду,однина називний
по́ми́лка,іменник жіночого роду,однина називний
`

// writeConfig compiles a dictionary and a configuration pointing at it
// into a temporary directory.
func writeConfig(t testing.TB) string {
	dir := t.TempDir()
	var buf bytes.Buffer
	_, err := compiler.Compile(strings.NewReader(lexicon), &buf)
	require.NoError(t, err)
	dictPath := filepath.Join(dir, "stress.trie")
	require.NoError(t, os.WriteFile(dictPath, buf.Bytes(), 0644))
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"dictionary:\n  path: "+dictPath+"\n"+
			"tagger:\n  kind: simple\n"), 0644))
	return configPath
}

func TestStressify(t *testing.T) {
	t.Setenv("UK_STRESS_DICT_PATH", "")
	require.True(t, wrapInitStressifier(writeConfig(t)))
	defer wrapCloseStressifier()

	stressed, ok := wrapStressify("Мама, помилка!")
	require.True(t, ok)
	assert.Equal(t, "Ма´ма, по´ми´лка!", stressed)
}

func TestInitStressifier_MissingConfig(t *testing.T) {
	assert.False(t, wrapInitStressifier(
		filepath.Join(t.TempDir(), "missing.yaml")))
}

func BenchmarkStressifyBuffer(b *testing.B) {
	b.StopTimer()
	b.Setenv("UK_STRESS_DICT_PATH", "")
	if !wrapInitStressifier(writeConfig(b)) {
		b.Fatal("initStressifier failed")
	}
	defer wrapCloseStressifier()
	corpus := []byte(strings.Repeat("Мама і помилка. ", 10000))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		duration, size := testBuffer(corpus)
		b.ReportMetric(float64(len(corpus))/duration.Seconds(), "bytes/sec")
		if size == 0 {
			b.Fatal("stressifyBuffer failed")
		}
	}
}
