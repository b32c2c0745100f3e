package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/compiler"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tagger"
)

const lexicon = `form,type,tag
ма́ма,іменник жіночого роду,однина називний
по́ми́лка,іменник жіночого роду,однина називний
`

func newStressifier(t *testing.T) *uk_stress.Stressifier {
	var buf bytes.Buffer
	_, err := compiler.Compile(strings.NewReader(lexicon), &buf)
	require.NoError(t, err)
	dict, err := dictionary.FromBytes(buf.Bytes())
	require.NoError(t, err)
	stressifier, err := uk_stress.NewStressifier(dict, tagger.Simple{})
	require.NoError(t, err)
	return stressifier
}

func writeTexts(t *testing.T, dir string, texts map[string]string) {
	for name, text := range texts {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	}
}

func TestGlobTexts(t *testing.T) {
	dir := t.TempDir()
	writeTexts(t, dir, map[string]string{
		"a.txt":         "мама",
		"nested/b.txt":  "помилка мама",
		"nested/c.json": "{}",
	})
	matches, err := GlobTexts(dir)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	SortPathInfoBySize(matches)
	assert.Equal(t, filepath.Join(dir, "nested", "b.txt"), matches[0].Path)

	_, err = GlobTexts(t.TempDir())
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	out, err := OutputPath("in", "out", filepath.Join("in", "x", "y.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "x", "y.txt"), out)
}

func TestStressifyDir(t *testing.T) {
	inputDir, outputDir := t.TempDir(), t.TempDir()
	writeTexts(t, inputDir, map[string]string{
		"a.txt":        "Мама.\n",
		"nested/b.txt": "Помилка і мама!",
	})
	stressifier := newStressifier(t)

	files, total, err := StressifyDir(context.Background(), stressifier,
		inputDir, outputDir, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, files)
	assert.Equal(t, len("Мама.\n")+len("Помилка і мама!"), total)

	stressed, err := os.ReadFile(filepath.Join(outputDir, "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "По´ми´лка і ма´ма!", string(stressed))

	// Outputs newer than their inputs are left alone.
	future := time.Now().Add(time.Hour)
	for _, name := range []string{"a.txt", "nested/b.txt"} {
		require.NoError(t, os.Chtimes(filepath.Join(outputDir, name),
			future, future))
	}
	files, _, err = StressifyDir(context.Background(), stressifier,
		inputDir, outputDir, 2, false)
	require.NoError(t, err)
	assert.Zero(t, files)

	files, _, err = StressifyDir(context.Background(), stressifier,
		inputDir, outputDir, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, files)
}

func TestStressifyDir_OutputInsideInput(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(inputDir, "stressed")
	writeTexts(t, inputDir, map[string]string{
		"a.txt":        "Мама.",
		"nested/b.txt": "Помилка.",
	})
	stressifier := newStressifier(t)

	for run := 0; run < 2; run++ {
		files, _, err := StressifyDir(context.Background(), stressifier,
			inputDir, outputDir, 2, true)
		require.NoError(t, err)
		assert.Equal(t, 2, files)
	}
	assert.NoDirExists(t, filepath.Join(outputDir, "stressed"))
	stressed, err := os.ReadFile(filepath.Join(outputDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Ма´ма.", string(stressed))

	assert.True(t, within(outputDir, filepath.Join(outputDir, "a.txt")))
	assert.False(t, within(outputDir, filepath.Join(inputDir, "a.txt")))
	assert.False(t, within(outputDir, outputDir+"-old/a.txt"))
}

func TestStressifyReader(t *testing.T) {
	var out bytes.Buffer
	err := stressifyReader(context.Background(), newStressifier(t),
		strings.NewReader("мама\nпомилка\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "ма´ма\nпо´ми´лка\n", out.String())
}
