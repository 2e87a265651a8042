package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/client"
)

// terminalPresenter prints each newly arrived piece of the accumulated output.
// Error output goes to errOut.
type terminalPresenter struct {
	out     io.Writer
	errOut  io.Writer
	printed string
}

func newTerminalPresenter(out, errOut io.Writer) *terminalPresenter {
	return &terminalPresenter{out: out, errOut: errOut}
}

func (p *terminalPresenter) SetLoading(loading bool) {
	if !loading && p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		fmt.Fprintln(p.out)
	}
}

func (p *terminalPresenter) SetOutput(text string) {
	if strings.HasPrefix(text, client.ErrorPrefix) {
		if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
			fmt.Fprintln(p.out)
		}
		p.printed = ""
		fmt.Fprintln(p.errOut, text)
		return
	}
	if !strings.HasPrefix(text, p.printed) {
		p.printed = ""
	}
	fmt.Fprint(p.out, text[len(p.printed):])
	p.printed = text
}
