package main

import (
	"canvas-student-export/cmd/canvas-export/commands"
	"canvas-student-export/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
