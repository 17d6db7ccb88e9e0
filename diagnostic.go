package scryptlib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DiagnosticType classifies a compiler diagnostic.
type DiagnosticType string

const (
	SyntaxError   DiagnosticType = "SyntaxError"
	SemanticError DiagnosticType = "SemanticError"
	Warning       DiagnosticType = "Warning"
)

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Diagnostic is one compiler error or warning, located in the file that
// declares the offending construct.
type Diagnostic struct {
	Type     DiagnosticType `json:"type"`
	FilePath string         `json:"filePath"`
	Message  string         `json:"message"`
	Position [2]Position    `json:"position"`
}

// String formats the diagnostic as file:line:col: type: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.FilePath, d.Position[0].Line, d.Position[0].Column, d.Type, d.Message)
}

var (
	semanticErrorRe = regexp.MustCompile(`Error:(?:\s|\n)*(?P<filePath>[^\s]+):(?P<line>\d+):(?P<column>\d+):(?P<line1>\d+):(?P<column1>\d+):*\n(?P<message>[^\n]+)\n`)
	syntaxErrorRe   = regexp.MustCompile(`(?P<filePath>[^\s]+):(?P<line>\d+):(?P<column>\d+):\n(?:[^\n]*\n){3}(?:unexpected (?P<unexpected>[^\n]+)\nexpecting (?P<expecting>[^\n]+)|(?P<message>[^\n]+))`)
	warningRe       = regexp.MustCompile(`Warning:(?:\s|\n)*(?P<filePath>[^\s]+):(?P<line>\d+):(?P<column>\d+):(?P<line1>\d+):(?P<column1>\d+):*\n(?P<message>[^\n]+)\n`)
	internalErrorRe = regexp.MustCompile(`Internal error:(?P<message>.+)`)

	fileNotFoundRe    = regexp.MustCompile(`^File not found: "(.*)"$`)
	dependencyCycleRe = regexp.MustCompile(`^Dependency cycle detected: \((.*)\)$`)
	cycleEdgeRe       = regexp.MustCompile(`"([^"]*)" -> "([^"]*)"`)
	noPublicFuncRe    = regexp.MustCompile("^Contact `([^`]*)` must have at least one public function$")
)

// ParseCompilerOutput extracts errors and warnings from the compiler's
// combined output.
func ParseCompilerOutput(output string) (errs, warnings []Diagnostic) {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	if strings.HasPrefix(strings.TrimLeft(output, " \t\n"), "Error:") {
		if strings.Contains(output, "Syntax error:") {
			errs = matchSyntaxErrors(output)
		} else {
			errs = matchRanged(semanticErrorRe, SemanticError, output)
		}
	}
	warnings = matchRanged(warningRe, Warning, output)
	return errs, warnings
}

func matchRanged(re *regexp.Regexp, typ DiagnosticType, output string) []Diagnostic {
	var out []Diagnostic
	for _, m := range submatchMaps(re, output) {
		out = append(out, Diagnostic{
			Type:     typ,
			FilePath: m["filePath"],
			Message:  m["message"],
			Position: [2]Position{
				{Line: atoi(m["line"]), Column: atoi(m["column"])},
				{Line: atoi(m["line1"]), Column: atoi(m["column1"])},
			},
		})
	}
	return out
}

func matchSyntaxErrors(output string) []Diagnostic {
	var out []Diagnostic
	for _, m := range submatchMaps(syntaxErrorRe, output) {
		msg := m["message"]
		if m["unexpected"] != "" {
			msg = "unexpected " + m["unexpected"] + "\nexpecting " + m["expecting"]
		}
		start := Position{Line: atoi(m["line"]), Column: atoi(m["column"])}
		out = append(out, Diagnostic{
			Type:     SyntaxError,
			FilePath: m["filePath"],
			Message:  msg,
			Position: [2]Position{start, start},
		})
	}
	return out
}

func submatchMaps(re *regexp.Regexp, s string) []map[string]string {
	names := re.SubexpNames()
	var out []map[string]string
	for _, match := range re.FindAllStringSubmatch(s, -1) {
		m := make(map[string]string, len(names))
		for i, name := range names {
			if name != "" {
				m[name] = match[i]
			}
		}
		out = append(out, m)
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// internalError returns the compiler's internal error message, if any.
func internalError(output string) (string, bool) {
	m := internalErrorRe.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ImportEdge is one importer -> imported step of a dependency cycle.
type ImportEdge struct {
	From string
	To   string
}

// FileNotFoundMessage is the diagnostic text for an import that doesn't resolve.
// The path is reported exactly as written in the import statement.
func FileNotFoundMessage(importPath string) string {
	return `File not found: "` + importPath + `"`
}

// DependencyCycleMessage is the diagnostic text for an import cycle.
func DependencyCycleMessage(edges []ImportEdge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = `"` + e.From + `" -> "` + e.To + `"`
	}
	return "Dependency cycle detected: (" + strings.Join(parts, ", ") + ")"
}

// NoPublicFunctionMessage is the diagnostic text for a contract without any
// public function. The wording matches the compiler byte for byte.
func NoPublicFunctionMessage(contract string) string {
	return "Contact `" + contract + "` must have at least one public function"
}

// MessageKind identifies the well-known diagnostic messages.
type MessageKind int

const (
	MessageOther MessageKind = iota
	MessageFileNotFound
	MessageDependencyCycle
	MessageNoPublicFunction
)

func (k MessageKind) String() string {
	switch k {
	case MessageFileNotFound:
		return "file-not-found"
	case MessageDependencyCycle:
		return "dependency-cycle"
	case MessageNoPublicFunction:
		return "no-public-function"
	default:
		return "other"
	}
}

// Classify recognizes the well-known diagnostic messages. The returned
// subject is the missing import path or the contract name; it is empty for
// cycles and unrecognized messages.
func (d Diagnostic) Classify() (MessageKind, string) {
	if m := fileNotFoundRe.FindStringSubmatch(d.Message); m != nil {
		return MessageFileNotFound, m[1]
	}
	if dependencyCycleRe.MatchString(d.Message) {
		return MessageDependencyCycle, ""
	}
	if m := noPublicFuncRe.FindStringSubmatch(d.Message); m != nil {
		return MessageNoPublicFunction, m[1]
	}
	return MessageOther, ""
}

// ParseDependencyCycle returns the edges of a dependency cycle message.
func ParseDependencyCycle(msg string) ([]ImportEdge, bool) {
	m := dependencyCycleRe.FindStringSubmatch(msg)
	if m == nil {
		return nil, false
	}
	var edges []ImportEdge
	for _, e := range cycleEdgeRe.FindAllStringSubmatch(m[1], -1) {
		edges = append(edges, ImportEdge{From: e[1], To: e[2]})
	}
	return edges, len(edges) > 0
}
