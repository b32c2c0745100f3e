package resources

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// DefaultDictionaryName is the file name a published dictionary is stored
// under, both remotely and in a local cache directory.
const DefaultDictionaryName = "stress.trie"

// EnvDictPath overrides the dictionary location for every resolver call.
const EnvDictPath = "UK_STRESS_DICT_PATH"

// EnvAuthToken is sent as a bearer token when fetching over HTTP.
const EnvAuthToken = "UK_STRESS_AUTH_TOKEN"

// WriteCounter counts the number of bytes written to it, and every 10 seconds,
// it logs a message reporting the number of bytes written so far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Since(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Info().Msgf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size))
	}
	return n, nil
}

// ResourceEntry is a read-only view of a resource file. For local files the
// data is memory mapped and stays valid until Cleanup.
type ResourceEntry struct {
	file    io.Closer
	release func() error
	Path    string
	Data    *[]byte
}

// Cleanup unmaps the data and closes the underlying file.
func (rsrc *ResourceEntry) Cleanup() error {
	var err error
	if rsrc.release != nil {
		err = rsrc.release()
		rsrc.release = nil
	}
	if rsrc.file != nil {
		if closeErr := rsrc.file.Close(); err == nil {
			err = closeErr
		}
		rsrc.file = nil
	}
	return err
}

// MapFile opens the file at path and maps it into memory read-only.
func MapFile(filePath string) (*ResourceEntry, error) {
	file, openErr := os.Open(filePath)
	if openErr != nil {
		return nil, fmt.Errorf("error opening %s: %w", filePath, openErr)
	}
	data, release, mmapErr := readMmap(file)
	if mmapErr != nil {
		file.Close()
		return nil, fmt.Errorf("error trying to mmap %s: %w", filePath,
			mmapErr)
	}
	return &ResourceEntry{
		file:    file,
		release: release,
		Path:    filePath,
		Data:    data,
	}, nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// Fetch
// Given a base URI and a resource name, determines if the resource is local
// or remote, and returns a ReadCloser for it.
func Fetch(uri string, rsrc string) (io.ReadCloser, error) {
	if isValidUrl(uri) {
		return FetchHTTP(uri, rsrc, os.Getenv(EnvAuthToken))
	}
	handle, fileErr := os.Open(path.Join(uri, rsrc))
	if fileErr != nil {
		return nil, fmt.Errorf("error opening %s/%s: %w", uri, rsrc,
			fileErr)
	}
	return handle, nil
}

// Size
// Given a base URI and a resource name, determine the size of the resource.
func Size(uri string, rsrc string) (uint, error) {
	if isValidUrl(uri) {
		return SizeHTTP(uri, rsrc, os.Getenv(EnvAuthToken))
	}
	fsz, err := os.Stat(path.Join(uri, rsrc))
	if err != nil {
		return 0, err
	}
	return uint(fsz.Size()), nil
}

// Download copies uri/rsrc into dir, unless a file of the same size is
// already there. Returns the local path.
func Download(uri string, rsrc string, dir string) (string, error) {
	targetPath := path.Join(dir, rsrc)
	rsrcSize, sizeErr := Size(uri, rsrc)
	if sizeErr != nil {
		return "", fmt.Errorf("cannot retrieve `%s` from `%s`: %w",
			rsrc, uri, sizeErr)
	}
	if stat, statErr := os.Stat(targetPath); statErr == nil &&
		uint(stat.Size()) == rsrcSize {
		log.Debug().Msgf("Skipping %s/%s... already exists, "+
			"and of the correct size.", uri, rsrc)
		return targetPath, nil
	}
	if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
		return "", mkdirErr
	}
	rsrcReader, fetchErr := Fetch(uri, rsrc)
	if fetchErr != nil {
		return "", fmt.Errorf("cannot retrieve `%s` from `%s`: %w",
			rsrc, uri, fetchErr)
	}
	defer rsrcReader.Close()

	// Renamed into place once complete.
	tmpPath := targetPath + ".part"
	rsrcFile, openErr := os.OpenFile(tmpPath,
		os.O_TRUNC|os.O_RDWR|os.O_CREATE, 0644)
	if openErr != nil {
		return "", fmt.Errorf("error opening '%s' for write: %w",
			tmpPath, openErr)
	}
	counter := &WriteCounter{
		Last: time.Now(),
		Path: fmt.Sprintf("%s/%s", uri, rsrc),
		Size: uint64(rsrcSize),
	}
	bytesDownloaded, ioErr := io.Copy(rsrcFile,
		io.TeeReader(rsrcReader, counter))
	if closeErr := rsrcFile.Close(); ioErr == nil {
		ioErr = closeErr
	}
	if ioErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("error downloading '%s': %w", rsrc, ioErr)
	}
	if renameErr := os.Rename(tmpPath, targetPath); renameErr != nil {
		return "", renameErr
	}
	log.Info().Msgf("Downloaded %s/%s... %s completed.", uri, rsrc,
		humanize.Bytes(uint64(bytesDownloaded)))
	return targetPath, nil
}

// ResolveDictionary
// Resolves a dictionary location to a mapped resource. The location can be
// a file path, a directory holding DefaultDictionaryName, or an HTTP(S) base
// URL, in which case the dictionary is downloaded into cacheDir first.
// EnvDictPath, when set, takes precedence over location.
func ResolveDictionary(location string, cacheDir string) (*ResourceEntry,
	error) {
	if envPath := os.Getenv(EnvDictPath); envPath != "" {
		location = envPath
	}
	if location == "" {
		return nil, errors.New("no dictionary location given")
	}
	if isValidUrl(location) {
		if cacheDir == "" {
			userCache, cacheErr := os.UserCacheDir()
			if cacheErr != nil {
				return nil, cacheErr
			}
			cacheDir = path.Join(userCache, "uk_stress")
		}
		localPath, downloadErr := Download(location,
			DefaultDictionaryName, cacheDir)
		if downloadErr != nil {
			return nil, downloadErr
		}
		return MapFile(localPath)
	}
	stat, statErr := os.Stat(location)
	if statErr != nil {
		return nil, fmt.Errorf("dictionary not found at %s: %w", location,
			statErr)
	}
	if stat.IsDir() {
		return MapFile(path.Join(location, DefaultDictionaryName))
	}
	return MapFile(location)
}
