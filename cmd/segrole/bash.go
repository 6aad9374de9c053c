package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const complete = `#! /bin/bash

_segrole_autocomplete() {
    local cur opts

    # Try to initialize using bash-completion if available
    if declare -F _init_completion >/dev/null 2>&1; then
        _init_completion -n "=:" 2>/dev/null
    fi

    # Fallback if cur is not set (e.g. _init_completion failed or missing)
    if [[ -z "$cur" ]]; then
        cur="${COMP_WORDS[COMP_CWORD]}"
    fi

    if [[ "$cur" == "-"* ]]; then
        opts=$( "${COMP_WORDS[@]:0:$COMP_CWORD}" "${cur}" --generate-bash-completion )
    else
        opts=$( "${COMP_WORDS[@]:0:$COMP_CWORD}" --generate-bash-completion )
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
}

complete -o bashdefault -o default -F _segrole_autocomplete segrole
`

func bashCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "bash",
		Usage: "print the bash completion script",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprint(e.ui.Out, complete)
			return err
		},
	}
}
