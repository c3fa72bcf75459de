package notion

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainTextLanguage is the code language of unlabeled or unknown code.
const PlainTextLanguage = "plain text"

var languages = setOf(
	"abap", "arduino", "bash", "basic", "c", "clojure", "coffeescript", "c++", "c#",
	"css", "dart", "diff", "docker", "elixir", "elm", "erlang", "flow", "fortran",
	"f#", "gherkin", "glsl", "go", "graphql", "groovy", "haskell", "html", "java",
	"javascript", "json", "julia", "kotlin", "latex", "less", "lisp", "livescript",
	"lua", "makefile", "markdown", "markup", "matlab", "mermaid", "nix",
	"objective-c", "ocaml", "pascal", "perl", "php", "plain text", "powershell",
	"prolog", "protobuf", "python", "r", "reason", "ruby", "rust", "sass", "scala",
	"scheme", "scss", "shell", "sql", "swift", "typescript", "vb.net", "verilog",
	"vhdl", "visual basic", "webassembly", "xml", "yaml", "java/c/c++/c#",
)

// aliases covers common fence labels, and lexer names that differ from the
// store's language names.
var aliases = map[string]string{
	"":                       PlainTextLanguage,
	"text":                   PlainTextLanguage,
	"txt":                    PlainTextLanguage,
	"plaintext":              PlainTextLanguage,
	"plain":                  PlainTextLanguage,
	"sh":                     "shell",
	"zsh":                    "shell",
	"console":                "shell",
	"golang":                 "go",
	"py":                     "python",
	"python3":                "python",
	"js":                     "javascript",
	"jsx":                    "javascript",
	"ts":                     "typescript",
	"tsx":                    "typescript",
	"yml":                    "yaml",
	"rb":                     "ruby",
	"rs":                     "rust",
	"cpp":                    "c++",
	"cs":                     "c#",
	"csharp":                 "c#",
	"fsharp":                 "f#",
	"kt":                     "kotlin",
	"dockerfile":             "docker",
	"make":                   "makefile",
	"md":                     "markdown",
	"ps1":                    "powershell",
	"pwsh":                   "powershell",
	"tex":                    "latex",
	"objc":                   "objective-c",
	"proto":                  "protobuf",
	"common lisp":            "lisp",
	"emacslisp":              "lisp",
	"reasonml":               "reason",
	"vb":                     "visual basic",
	"wasm":                   "webassembly",
	"gql":                    "graphql",
	"htm":                    "html",
	"protocol buffer":        "protobuf",
	"base makefile":          "makefile",
	"objectivec":             "objective-c",
	"tsql":                   "sql",
	"postgresql sql dialect": "sql",
	"mysql":                  "sql",
}

// CodeLanguage maps a fence info string to one of the store's code
// languages; anything unknown becomes PlainTextLanguage.
func CodeLanguage(info string) string {
	name := strings.ToLower(strings.TrimSpace(info))
	if lang, ok := lookupLanguage(name); ok {
		return lang
	}
	if lexer := lexers.Get(name); lexer != nil {
		if lang, ok := lookupLanguage(strings.ToLower(lexer.Config().Name)); ok {
			return lang
		}
	}
	return PlainTextLanguage
}

func lookupLanguage(name string) (string, bool) {
	if languages[name] {
		return name, true
	}
	lang, ok := aliases[name]
	return lang, ok
}

func setOf(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
