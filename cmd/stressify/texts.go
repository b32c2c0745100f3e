package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yargevad/filepathx"

	"github.com/wbrown/uk_stress"
)

type PathInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// GlobTexts
// Given a directory path, recursively finds all `.txt` files, returning a
// slice of PathInfo.
func GlobTexts(dirPath string) (pathInfos []PathInfo, err error) {
	textPaths, err := filepathx.Glob(dirPath + "/**/*.txt")
	if err != nil {
		return nil, err
	}
	if len(textPaths) == 0 {
		return nil, fmt.Errorf("%s does not contain any .txt files", dirPath)
	}
	pathInfos = make([]PathInfo, 0, len(textPaths))
	for _, currPath := range textPaths {
		stat, statErr := os.Stat(currPath)
		if statErr != nil {
			return nil, statErr
		}
		if stat.IsDir() {
			continue
		}
		pathInfos = append(pathInfos, PathInfo{
			Path:    currPath,
			Size:    stat.Size(),
			ModTime: stat.ModTime(),
		})
	}
	return pathInfos, nil
}

// SortPathInfoBySize puts the largest files first, so that workers do not
// end the run on a single large file.
func SortPathInfoBySize(pathInfos []PathInfo) {
	sort.SliceStable(pathInfos, func(i, j int) bool {
		return pathInfos[i].Size > pathInfos[j].Size
	})
}

// OutputPath maps a file under inputDir to the same relative path under
// outputDir.
func OutputPath(inputDir, outputDir, path string) (string, error) {
	rel, err := filepath.Rel(inputDir, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDir, rel), nil
}

// UpToDate reports whether output exists and is newer than input.
func UpToDate(input PathInfo, output string) bool {
	stat, err := os.Stat(output)
	return err == nil && input.ModTime.Before(stat.ModTime())
}

// within reports whether path lies inside dir.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

type batchResult struct {
	path  string
	bytes int
	err   error
}

// StressifyDir stressifies every `.txt` file under inputDir into outputDir,
// using the given number of workers. Files whose output is newer are
// skipped unless force is set. Files already under outputDir are never
// taken as inputs, so outputDir may sit inside inputDir.
func StressifyDir(ctx context.Context, stressifier *uk_stress.Stressifier,
	inputDir, outputDir string, workers int, force bool) (files int,
	total int, err error) {
	globbed, err := GlobTexts(inputDir)
	if err != nil {
		return 0, 0, err
	}
	matches := globbed[:0]
	for _, pathInfo := range globbed {
		if !within(outputDir, pathInfo.Path) {
			matches = append(matches, pathInfo)
		}
	}
	SortPathInfoBySize(matches)
	if workers < 1 {
		workers = 1
	}

	paths := make(chan PathInfo, workers)
	results := make(chan batchResult, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pathInfo := range paths {
				results <- stressifyFile(ctx, stressifier, inputDir,
					outputDir, pathInfo, force)
			}
		}()
	}
	go func() {
		defer close(paths)
		for _, pathInfo := range matches {
			select {
			case paths <- pathInfo:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.err != nil {
			if err == nil {
				err = fmt.Errorf("%s: %w", result.path, result.err)
			}
			continue
		}
		if result.bytes >= 0 {
			files++
			total += result.bytes
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	return files, total, err
}

func stressifyFile(ctx context.Context, stressifier *uk_stress.Stressifier,
	inputDir, outputDir string, pathInfo PathInfo, force bool) batchResult {
	result := batchResult{path: pathInfo.Path}
	outPath, err := OutputPath(inputDir, outputDir, pathInfo.Path)
	if err != nil {
		result.err = err
		return result
	}
	if !force && UpToDate(pathInfo, outPath) {
		log.Info().Msgf("`%s` is newer than `%s`, skipping", outPath,
			pathInfo.Path)
		result.bytes = -1
		return result
	}
	text, err := os.ReadFile(pathInfo.Path)
	if err != nil {
		result.err = err
		return result
	}
	log.Info().Msgf("Reading %s", pathInfo.Path)
	stressed, err := stressifier.Stressify(ctx, string(text))
	if err != nil {
		result.err = err
		return result
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		result.err = err
		return result
	}
	if err := os.WriteFile(outPath, []byte(stressed), 0644); err != nil {
		result.err = err
		return result
	}
	result.bytes = len(text)
	return result
}
