package tui

// command is the closed set of menu actions. Raw key input is parsed
// into one of these before any dispatch happens, so an unrecognized key
// can never fall through into an action switch.
type command int

const (
	cmdNone command = iota
	cmdAttachIndex
	cmdNewSession
	cmdAttach
	cmdDelete
	cmdRename
	cmdSaveSnapshot
	cmdRefresh
	cmdConfig
	cmdQuit
)

// configCommand is the closed set of config-menu actions.
type configCommand int

const (
	cfgNone configCommand = iota
	cfgToggleSessionFile
	cfgToggleAttach
	cfgBack
)

// parseMainCommand maps a key press on the main menu to a command. A
// digit is an attach by 1-based index into the rendered list; the
// second return value carries that index. Unknown keys parse to
// cmdNone.
func parseMainCommand(key string) (command, int) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return cmdAttachIndex, int(key[0] - '0')
	}
	switch key {
	case "n":
		return cmdNewSession, 0
	case "a":
		return cmdAttach, 0
	case "d":
		return cmdDelete, 0
	case "r":
		return cmdRename, 0
	case "s":
		return cmdSaveSnapshot, 0
	case "l":
		return cmdRefresh, 0
	case "c":
		return cmdConfig, 0
	case "q", "ctrl+c":
		return cmdQuit, 0
	}
	return cmdNone, 0
}

// parseConfigCommand maps a key press on the config menu.
func parseConfigCommand(key string) configCommand {
	switch key {
	case "1":
		return cfgToggleSessionFile
	case "2":
		return cfgToggleAttach
	case "q", "b", "esc", "ctrl+c":
		return cfgBack
	}
	return cfgNone
}
