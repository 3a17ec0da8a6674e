package ui

import (
	"strings"

	"github.com/noborus/ov/oviewer"
)

// ShowInPager lets the user browse every match in the ov pager.
// It takes over the terminal until the user quits.
func ShowInPager(lines []string) error {
	reader := strings.NewReader(strings.Join(lines, "\n") + "\n")

	root, err := oviewer.NewRoot(reader)
	if err != nil {
		return err
	}

	// Don't write the page back on exit; the final frame is already printed
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
