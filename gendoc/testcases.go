package gendoc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"tracekb/kb"
	"tracekb/llm"
	"tracekb/textparse"
)

const functionTestPrompt = `Generate test cases for the following function. Generate EXACTLY %d test cases (no more, no less).

Function Name: %s
Signature: %s
Docstring: %s
Code:
%s

Generate EXACTLY %d test cases covering the most important scenarios:
1. Primary happy path scenario (most common use case)
2. One edge case or boundary condition
3. One error handling scenario (if applicable)

For each test case, provide:
- Test case ID (TC1, TC2, TC3, etc.)
- Test case name
- Description
- Input data
- Expected output
- Test steps

IMPORTANT: Generate exactly %d test cases. Do not generate more than %d test cases.`

const classTestPrompt = `Generate test cases for the following class. Generate EXACTLY %d test cases (no more, no less).

Class Name: %s
Docstring: %s
Methods:
%s

Code:
%s

Generate EXACTLY %d test cases covering the most important scenarios:
1. Class instantiation (if applicable)
2. Key method behaviors (focus on most important methods)
3. One error handling scenario (if applicable)

For each test case, provide:
- Test case ID (TC1, TC2, TC3, etc.)
- Test case name
- Description
- Input data
- Expected output
- Test steps

IMPORTANT: Generate exactly %d test cases. Do not generate more than %d test cases.`

// Prompt-side code excerpts.
const (
	functionCodeLimit = 1000
	classCodeLimit    = 1500
)

// Limits controls how many test cases generation may produce.
type Limits struct {
	MaxTotal    int // across the whole run
	PerFunction int
	PerClass    int
}

// TestCaseGenerator produces structured test cases for every function and
// class in a descriptor map, within configured limits.
type TestCaseGenerator struct {
	provider llm.Provider
	limits   Limits
}

// NewTestCaseGenerator creates a test-case generator. Zero limits get
// defaults of 50 total, 3 per function, 5 per class.
func NewTestCaseGenerator(provider llm.Provider, limits Limits) *TestCaseGenerator {
	if limits.MaxTotal <= 0 {
		limits.MaxTotal = 50
	}
	if limits.PerFunction <= 0 {
		limits.PerFunction = 3
	}
	if limits.PerClass <= 0 {
		limits.PerClass = 5
	}
	return &TestCaseGenerator{provider: provider, limits: limits}
}

// Generate walks the descriptor map in sorted-path order, generating test
// cases for each function then each class. Once the global cap is reached,
// remaining components are skipped. A failed generation for one component is
// logged and skipped; it never aborts the rest.
func (g *TestCaseGenerator) Generate(ctx context.Context, code kb.CodeMap) (map[string][]textparse.TestCase, error) {
	paths := make([]string, 0, len(code))
	for p := range code {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make(map[string][]textparse.TestCase)
	total := 0
	start := time.Now()

	for _, path := range paths {
		info := code[path]
		var fileTests []textparse.TestCase

		for _, fn := range info.Functions {
			if total >= g.limits.MaxTotal {
				slog.Info("gendoc: reached test case limit, skipping remaining components",
					"limit", g.limits.MaxTotal)
				break
			}
			tests := g.generateForFunction(ctx, fn)
			if len(tests) > g.limits.PerFunction {
				tests = tests[:g.limits.PerFunction]
			}
			fileTests = append(fileTests, tests...)
			total += len(tests)
		}

		if total < g.limits.MaxTotal {
			for _, cls := range info.Classes {
				if total >= g.limits.MaxTotal {
					slog.Info("gendoc: reached test case limit, skipping remaining components",
						"limit", g.limits.MaxTotal)
					break
				}
				tests := g.generateForClass(ctx, cls)
				if len(tests) > g.limits.PerClass {
					tests = tests[:g.limits.PerClass]
				}
				fileTests = append(fileTests, tests...)
				total += len(tests)
			}
		}

		if len(fileTests) > 0 {
			out[path] = fileTests
		}
		if total >= g.limits.MaxTotal {
			break
		}
	}

	slog.Info("gendoc: test case generation complete",
		"test_cases", total, "limit", g.limits.MaxTotal,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (g *TestCaseGenerator) generateForFunction(ctx context.Context, fn kb.FunctionInfo) []textparse.TestCase {
	n := g.limits.PerFunction
	prompt := fmt.Sprintf(functionTestPrompt,
		n, fn.Name, fn.Signature, fn.Docstring, truncate(fn.Code, functionCodeLimit), n, n, n)

	resp, err := g.provider.Complete(ctx, llm.CompleteRequest{Prompt: prompt})
	if err != nil {
		slog.Warn("gendoc: test generation failed for function, skipping",
			"function", fn.Name, "error", err)
		return nil
	}
	return textparse.ParseTestCases(resp.Content, fn.Name, n)
}

func (g *TestCaseGenerator) generateForClass(ctx context.Context, cls kb.ClassInfo) []textparse.TestCase {
	var methods []string
	for _, m := range cls.Methods {
		methods = append(methods, "  - "+m.Name)
	}

	n := g.limits.PerClass
	prompt := fmt.Sprintf(classTestPrompt,
		n, cls.Name, cls.Docstring, strings.Join(methods, "\n"),
		truncate(cls.Code, classCodeLimit), n, n, n)

	resp, err := g.provider.Complete(ctx, llm.CompleteRequest{Prompt: prompt})
	if err != nil {
		slog.Warn("gendoc: test generation failed for class, skipping",
			"class", cls.Name, "error", err)
		return nil
	}
	return textparse.ParseTestCases(resp.Content, cls.Name, n)
}
