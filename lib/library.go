package main

/*
#include "library.h"
*/
import "C"
import (
	"context"
	"sync"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/config"
)

// The C entry points carry no handle, so the library keeps one stressifier
// for the whole process. Go callers build their own with NewStressifier.
var (
	mu          sync.Mutex
	stressifier *uk_stress.Stressifier
)

// initStressifier loads the configuration at configPath, or the environment
// and defaults when it is empty, replacing any stressifier loaded before.
//
//export initStressifier
func initStressifier(configPath *C.char) bool {
	cfg, err := config.Load(C.GoString(configPath))
	if err != nil {
		log.Error().Err(err).Send()
		return false
	}
	loaded, err := uk_stress.NewStressifierFromConfig(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize the stressifier")
		return false
	}
	mu.Lock()
	defer mu.Unlock()
	if stressifier != nil {
		stressifier.Close()
	}
	stressifier = loaded
	return true
}

func current() *uk_stress.Stressifier {
	mu.Lock()
	defer mu.Unlock()
	if stressifier == nil {
		cfg, err := config.Load("")
		if err != nil {
			log.Error().Err(err).Send()
			return nil
		}
		if stressifier, err = uk_stress.NewStressifierFromConfig(cfg); err != nil {
			log.Error().Err(err).Send()
			return nil
		}
	}
	return stressifier
}

func stressifyString(text string) (string, bool) {
	s := current()
	if s == nil {
		return "", false
	}
	stressed, err := s.Stressify(context.Background(), text)
	if err != nil {
		log.Error().Err(err).Send()
		return "", false
	}
	return stressed, true
}

// stressify accepts UTF-8 text as a C string and returns a malloc'ed C
// string with stress marks added, or NULL on failure. The caller frees it.
//
//export stressify
func stressify(text *C.char) *C.char {
	stressed, ok := stressifyString(C.GoString(text))
	if !ok {
		return nil
	}
	return C.CString(stressed)
}

// stressifyBuffer is stressify for text that is not NUL terminated.
//
//export stressifyBuffer
func stressifyBuffer(buf *C.char, sz C.size_t) *C.char {
	text := C.GoStringN(buf, C.int(sz))
	stressed, ok := stressifyString(text)
	if !ok {
		return nil
	}
	return C.CString(stressed)
}

//export closeStressifier
func closeStressifier() {
	mu.Lock()
	defer mu.Unlock()
	if stressifier != nil {
		stressifier.Close()
		stressifier = nil
	}
}

// The wrappers below simulate C calls from Go, as the test package cannot
// use cgo.

func wrapInitStressifier(configPath string) bool {
	cPath := C.CString(configPath)
	defer C.free(unsafe.Pointer(cPath))
	return initStressifier(cPath)
}

func wrapStressify(text string) (string, bool) {
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))
	stressed := stressify(cText)
	if stressed == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(stressed))
	return C.GoString(stressed), true
}

// testBuffer times stressifyBuffer over buf.
func testBuffer(buf []byte) (time.Duration, int) {
	cBuf := (*C.char)(C.CBytes(buf))
	defer C.free(unsafe.Pointer(cBuf))
	start := time.Now()
	stressed := stressifyBuffer(cBuf, C.size_t(len(buf)))
	duration := time.Since(start)
	if stressed == nil {
		return duration, 0
	}
	defer C.free(unsafe.Pointer(stressed))
	return duration, len(C.GoString(stressed))
}

func wrapCloseStressifier() {
	closeStressifier()
}

func main() {}
