// Command openapi-compat checks that the API description compiled into this
// build does not break clients written against an earlier one.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"promptvault/docs"

	"gopkg.in/yaml.v3"
)

var methods = []string{"get", "put", "post", "delete", "patch", "head", "options"}

// surface maps "METHOD /path" to the response codes it documents.
type surface map[string]map[string]bool

func main() {
	basePath := flag.String("base", "", "baseline swagger file (JSON or YAML)")
	revisionPath := flag.String("revision", "", "revision swagger file; defaults to the compiled-in docs")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}
	os.Exit(run(*basePath, *revisionPath, os.Stdout, os.Stderr))
}

func run(basePath, revisionPath string, stdout, stderr io.Writer) int {
	// #nosec G304: path comes from CLI flags in a dev tool
	baseRaw, err := os.ReadFile(basePath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read base spec: %v\n", err)
		return 1
	}
	revRaw := []byte(docs.SwaggerInfo.ReadDoc())
	if revisionPath != "" {
		// #nosec G304
		if revRaw, err = os.ReadFile(revisionPath); err != nil {
			fmt.Fprintf(stderr, "failed to read revision spec: %v\n", err)
			return 1
		}
	}

	base, err := parseSurface(baseRaw)
	if err != nil {
		fmt.Fprintf(stderr, "base spec: %v\n", err)
		return 1
	}
	revision, err := parseSurface(revRaw)
	if err != nil {
		fmt.Fprintf(stderr, "revision spec: %v\n", err)
		return 1
	}

	if issues := breakingChanges(base, revision); len(issues) > 0 {
		fmt.Fprintln(stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(stderr, "- %s\n", issue)
		}
		return 1
	}
	fmt.Fprintln(stdout, "openapi compatibility check passed")
	return 0
}

// parseSurface reads the operations and response codes of a swagger
// document. JSON input is accepted because it is valid YAML.
func parseSurface(raw []byte) (surface, error) {
	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := surface{}
	for path, ops := range doc.Paths {
		for method, node := range ops {
			method = strings.ToLower(strings.TrimSpace(method))
			if !isMethod(method) {
				continue
			}
			var op struct {
				Responses map[string]yaml.Node `yaml:"responses"`
			}
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			codes := make(map[string]bool, len(op.Responses))
			for code := range op.Responses {
				codes[strings.ToLower(strings.TrimSpace(code))] = true
			}
			out[strings.ToUpper(method)+" "+path] = codes
		}
	}
	return out, nil
}

func isMethod(m string) bool {
	for _, known := range methods {
		if m == known {
			return true
		}
	}
	return false
}

// breakingChanges lists operations and response codes present in base but
// missing from revision.
func breakingChanges(base, revision surface) []string {
	var issues []string
	for op, codes := range base {
		revCodes, ok := revision[op]
		if !ok {
			issues = append(issues, "removed operation: "+op)
			continue
		}
		for code := range codes {
			if !revCodes[code] {
				issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", op, strings.ToUpper(code)))
			}
		}
	}
	sort.Strings(issues)
	return issues
}
