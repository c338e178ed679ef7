package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pascals-lang/pascals/internal/compiler"
)

const runTimeout = 10 * time.Second

type testResult struct {
	fileName string
	passed   bool
	output   string // failure reason
	isGood   bool
}

// expectHeader is the "{ expect: Kind }" comment a bad test may start with.
var expectHeader = regexp.MustCompile(`^\{\s*expect:\s*([A-Za-z]+)\s*\}`)

func main() {
	p, err := compiler.DefaultPipeline(nil)
	if err != nil {
		fmt.Println("cannot load tables:", err)
		os.Exit(1)
	}

	fmt.Println("🧹 Cleaning output directory...")
	_ = os.RemoveAll("out")
	_ = os.Mkdir("out", 0755)

	fmt.Println("\n🔍 Running good tests:")
	goodFiles, _ := filepath.Glob(filepath.Join("tests/good", "*.pas"))
	fmt.Printf("Found %d good test files...\n", len(goodFiles))

	goodPassed, goodFailed := 0, 0
	badPassed, badFailed := 0, 0
	failedTests := []testResult{}

	for _, file := range goodFiles {
		fmt.Printf("→ Running good test: %s\n", filepath.Base(file))
		res := runGoodTest(p, file)
		if res.passed {
			fmt.Printf("  ✅ %s\n", res.fileName)
			goodPassed++
		} else {
			fmt.Printf("  ❌ %s\n", res.fileName)
			goodFailed++
			failedTests = append(failedTests, res)
		}
	}

	fmt.Println("\n💥 Running bad tests:")
	badFiles, _ := filepath.Glob(filepath.Join("tests/bad", "*.pas"))
	fmt.Printf("Found %d bad test files...\n", len(badFiles))

	for _, file := range badFiles {
		fmt.Printf("→ Running bad test: %s\n", filepath.Base(file))
		res := runBadTest(p, file)
		if res.passed {
			fmt.Printf("  ✅ %s (Failed as expected)\n", res.fileName)
			badPassed++
		} else {
			fmt.Printf("  ❌ %s (Unexpected Result)\n", res.fileName)
			badFailed++
			failedTests = append(failedTests, res)
		}
	}

	if len(failedTests) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failedTests {
			fmt.Printf("\n❌ Test: %s (%s)\n", failure.fileName, map[bool]string{true: "Good Test", false: "Bad Test"}[failure.isGood])
			fmt.Println("Reason:")
			fmt.Println(failure.output)
			fmt.Println("---")
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good Tests Summary: ✅ Passed: %d | ❌ Failed: %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad Tests Summary:  ✅ Passed: %d | ❌ Failed: %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		fmt.Println("\n🚨 Some tests failed!")
		os.Exit(1)
	}
	fmt.Println("\n🎉 All tests passed!")
}

// runGoodTest compiles file, writes its reports to out/ and requires a
// clean analysis.
func runGoodTest(p *compiler.Pipeline, file string) testResult {
	res := testResult{fileName: filepath.Base(file), isGood: true}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	_, out, err := p.CompileAndWrite(ctx, file, "out")
	if err != nil {
		res.output = fmt.Sprintf("Compile failed: %v", err)
		return res
	}
	if len(out.Errors) > 0 {
		res.output = "Unexpected semantic errors:\n" + compiler.FormatSemanticErrors(out.Errors)
		return res
	}
	res.passed = true
	return res
}

// runBadTest requires a lexical, syntax, AST or semantic failure. When the
// file starts with an expect header, the failure must name that kind.
func runBadTest(p *compiler.Pipeline, file string) testResult {
	res := testResult{fileName: filepath.Base(file)}

	src, err := compiler.ReadSource(file)
	if err != nil {
		res.output = err.Error()
		return res
	}
	want := ""
	if m := expectHeader.FindStringSubmatch(src); m != nil {
		want = m[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	out, err := p.Compile(ctx, src)
	var output string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		res.output = fmt.Sprintf("timed out after %v", runTimeout)
		return res
	case err != nil:
		output = err.Error()
	case len(out.Errors) > 0:
		output = compiler.FormatSemanticErrors(out.Errors)
	default:
		res.output = "Expected failure but got success."
		return res
	}

	if want != "" && !strings.Contains(output, want) {
		res.output = fmt.Sprintf("Failed, but not with %s.\nOutput:\n%s", want, output)
		return res
	}
	res.passed = true
	return res
}
