package main

import (
	"fmt"
	"io"
)

// subcommands lists every dispatchable name (including read/write-width
// aliases) for shell completion, per spec.md §6.
var subcommands = []string{
	"list-models", "list-registers", "scan",
	"read-uint8", "readb", "read-uint16", "readh", "read-uint32", "readw",
	"read-bytes", "reada", "read-bytes-multiple", "read-reg",
	"write-uint8", "write-uint16", "write-uint32", "write-bytes",
	"write-bytes-multiple", "write-reg",
}

// generateCompletion emits a bash completion script for the subcommand and
// global-flag vocabulary. Invoked when GENERATE_COMPLETION is set, per
// spec.md §6, in place of normal command dispatch.
func generateCompletion(w io.Writer) {
	fmt.Fprint(w, "# bash completion for dynamixel-tool\n")
	fmt.Fprint(w, "_dynamixel_tool() {\n")
	fmt.Fprint(w, "    local cur prev\n")
	fmt.Fprint(w, "    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	fmt.Fprint(w, "    if [ \"$COMP_CWORD\" -eq 1 ]; then\n")
	fmt.Fprintf(w, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", joinWords(subcommands))
	fmt.Fprint(w, "        return 0\n")
	fmt.Fprint(w, "    fi\n")
	fmt.Fprintf(w, "    COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", joinWords([]string{
		"--force", "--debug", "--port", "--baudrate", "--retries", "--json", "--protocol", "--sync",
	}))
	fmt.Fprint(w, "}\n")
	fmt.Fprint(w, "complete -F _dynamixel_tool dynamixel-tool\n")
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
