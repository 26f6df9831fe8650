package cli

import (
	"fmt"
	"io"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

const (
	completionCommands = "watch ui history summary sessions config version completion"
	completionGlobals  = "-f --format -q --quiet -v --verbose"
	completionWatch    = "-s --slot --prefix -e --encoding -i --interval --log-dir --no-save --metrics-textfile"
)

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals) error {
	switch c.Shell {
	case "bash":
		return writeScript(globals.Stdout, bashCompletion)
	case "zsh":
		return writeScript(globals.Stdout, zshCompletion)
	case "fish":
		return writeScript(globals.Stdout, fishCompletion)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
}

func writeScript(w io.Writer, script string) error {
	_, err := io.WriteString(w, script)
	return err
}

var bashCompletion = `# slotw bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(slotw completion bash)"

_slotw_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="` + completionCommands + `"
    local global_flags="` + completionGlobals + `"
    local watch_flags="` + completionWatch + `"

    case "${prev}" in
        slotw)
            COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
            return
            ;;
        -f|--format)
            COMPREPLY=($(compgen -W "text ndjson" -- "${cur}"))
            return
            ;;
        -e|--encoding)
            COMPREPLY=($(compgen -W "utf-8 shift_jis euc-jp" -- "${cur}"))
            return
            ;;
        --log-dir)
            _filedir -d
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            return
            ;;
        sessions)
            COMPREPLY=($(compgen -W "list show" -- "${cur}"))
            return
            ;;
    esac

    case "${words[1]}" in
        watch|ui)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${watch_flags} ${global_flags}" -- "${cur}"))
            else
                _filedir log
            fi
            ;;
        summary)
            _filedir log
            ;;
        *)
            COMPREPLY=($(compgen -W "${global_flags}" -- "${cur}"))
            ;;
    esac
}

complete -F _slotw_completions slotw
`

var zshCompletion = `#compdef slotw
# slotw zsh completion script
# Add to ~/.zshrc:
#   eval "$(slotw completion zsh)"

_slotw() {
    local -a commands
    commands=(
        'watch:Tail the chat log and tally slot results'
        'ui:Interactive live view of a watch session'
        'history:Combine archived session summaries of a slot'
        'summary:Show one archived session summary'
        'sessions:List archived session summaries'
        'config:Show or manage configuration'
        'version:Show version information'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '(-f --format)'{-f,--format}'[Output format]:format:(text ndjson)' \
        '(-q --quiet)'{-q,--quiet}'[Suppress banners and warnings]' \
        '(-v --verbose)'{-v,--verbose}'[Show debug output]' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                watch|ui)
                    _arguments \
                        '(-s --slot)'{-s,--slot}'[Slot name]:slot:' \
                        '--prefix[Chat prefix]:prefix:' \
                        '(-e --encoding)'{-e,--encoding}'[Text encoding]:encoding:(utf-8 shift_jis euc-jp)' \
                        '(-i --interval)'{-i,--interval}'[Poll interval]:duration:' \
                        '--log-dir[Archive directory]:dir:_files -/' \
                        '--no-save[Do not write logs or summary]' \
                        '--metrics-textfile[Prometheus textfile]:file:_files' \
                        '1:chat log:_files'
                    ;;
                summary)
                    _arguments '1:summary file:_files'
                    ;;
                config)
                    _values 'subcommand' show path generate
                    ;;
                sessions)
                    _values 'subcommand' list show
                    ;;
            esac
            ;;
    esac
}

_slotw "$@"
`

var fishCompletion = `# slotw fish completion script
# Save to ~/.config/fish/completions/slotw.fish

set -l commands ` + completionCommands + `

complete -c slotw -f -n "not __fish_seen_subcommand_from $commands" -a "$commands"
complete -c slotw -s f -l format -x -a "text ndjson" -d "Output format"
complete -c slotw -s q -l quiet -d "Suppress banners and warnings"
complete -c slotw -s v -l verbose -d "Show debug output"

complete -c slotw -n "__fish_seen_subcommand_from watch ui" -s s -l slot -x -d "Slot name"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -l prefix -x -d "Chat prefix"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -s e -l encoding -x -a "utf-8 shift_jis euc-jp" -d "Text encoding"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -s i -l interval -x -d "Poll interval"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -l log-dir -r -a "(__fish_complete_directories)" -d "Archive directory"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -l no-save -d "Do not write logs or summary"
complete -c slotw -n "__fish_seen_subcommand_from watch ui" -l metrics-textfile -r -d "Prometheus textfile"
complete -c slotw -n "__fish_seen_subcommand_from config" -x -a "show path generate"
complete -c slotw -n "__fish_seen_subcommand_from sessions" -x -a "list show"
`
