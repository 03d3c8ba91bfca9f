package teaui

import "tableflip.dev/logger/pkg/tui/components/help"

// keyHelp feeds the help overlay. Keep it in step with handleNormalKey.
var keyHelp = []help.Key{
	{Section: "Composer", Keys: "type", Action: "draft a new entry"},
	{Section: "Composer", Keys: "enter", Action: "save the draft, attach a photo when empty, clear a search"},
	{Section: "Composer", Keys: "space on an empty line", Action: "start a search"},
	{Section: "Composer", Keys: "backspace at the start", Action: "leave search"},
	{Section: "Composer", Keys: "ctrl+u", Action: "clear the line"},
	{Section: "Composer", Keys: "esc", Action: "drop the selection, then reset the composer"},
	{Section: "Composer", Keys: "ctrl+p", Action: "attach a photo by path"},
	{Section: "Entries", Keys: "up / down", Action: "select an entry"},
	{Section: "Entries", Keys: "pgup / pgdown", Action: "scroll"},
	{Section: "Entries", Keys: "tab", Action: "open the action menu for the selection"},
	{Section: "Entries", Keys: "ctrl+d", Action: "toggle the event log"},
	{Section: "Entries", Keys: "? on an empty line, f1", Action: "toggle this help"},
	{Section: "Entries", Keys: "ctrl+c", Action: "quit"},
}
