package console

import "strings"

// Command is one entry of the main menu.
type Command int

const (
	CmdUnknown Command = iota
	CmdCorrect
	CmdView
	CmdShowFile
	CmdReport
	CmdDuplicate
	CmdManualAdd
	CmdListBadges
	CmdExit
)

var commandLabels = map[Command]string{
	CmdCorrect:    "Correct missing/excess punches",
	CmdView:       "View punches of a badge",
	CmdShowFile:   "View attendance file",
	CmdReport:     "Full monthly report",
	CmdDuplicate:  "Duplicate existing days",
	CmdManualAdd:  "Add punches manually",
	CmdListBadges: "List badges",
	CmdExit:       "Exit",
}

// Commands lists the menu in display order.
func Commands() []Command {
	return []Command{CmdCorrect, CmdView, CmdShowFile, CmdReport, CmdDuplicate, CmdManualAdd, CmdListBadges, CmdExit}
}

// ParseCommand maps a menu choice ("1".."8") to a Command.
func ParseCommand(s string) Command {
	s = strings.TrimSpace(s)
	if len(s) != 1 || s[0] < '1' || s[0] > '8' {
		return CmdUnknown
	}
	return Command(s[0] - '0')
}

func (c Command) String() string {
	if l, ok := commandLabels[c]; ok {
		return l
	}
	return "unknown"
}
