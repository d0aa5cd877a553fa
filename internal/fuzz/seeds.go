package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover every token kind and every error path.
var languageSeeds = []string{
	"",
	"42",
	"-7",
	"+",
	`"text"`,
	"(+ 1 (* 2 3))",
	"(- 10)",
	"(* 65536 65536)",
	"(+ 2147483647 1)",
	"(- -2147483648)",
	"((+) 1)",
	"(foo 1 2)",
	`(+ "a" 1)`,
	"(+ 1 +)",
	"()",
	"(+ 1 2",
	"(+ 1 2))",
	"1 2",
	`"unterminated`,
	`"tail\`,
	"(\t+\n1\r\n2 )",
	"(+ 1 (+ 2 (+ 3 (+ 4 (+ 5 (+ 6))))))",
	"((((((((((((((((((((1))))))))))))))))))))",
	"(λ 1)",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.lisp файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".lisp" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
