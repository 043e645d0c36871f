package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/parse"
	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
)

// stdioPublisher is the line-oriented TrajectoryPublisher this CLI
// speaks: every plan is printed to out as "plan <n>" followed by n state
// lines, and the controller's actual start state is read back from in
// as a single "start state <line>" reply. Adapted from the teacher's
// fixed Scanf protocol in main.go, generalized to a keyword per message.
type stdioPublisher struct {
	out    io.Writer
	reader *bufio.Reader
}

func newStdioPublisher(out io.Writer, in io.Reader) *stdioPublisher {
	return &stdioPublisher{out: out, reader: bufio.NewReader(in)}
}

func (p *stdioPublisher) Time() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func (p *stdioPublisher) PublishPlan(plan *planner.DubinsPlan) common.State {
	fmt.Fprintf(p.out, "plan %d\n", len(plan.States))
	for _, s := range plan.States {
		fmt.Fprintln(p.out, s.String())
	}

	line := strings.TrimSpace(parse.GetLine(p.reader))
	stateLine, found := strings.CutPrefix(line, "start state ")
	if !found {
		if s, ok := plan.Sample(plan.States[0].Time); ok {
			return s
		}
		return plan.States[0]
	}
	s, err := parse.ParseState(stateLine)
	if err != nil {
		return plan.States[0]
	}
	return s
}

func (p *stdioPublisher) DisplayTrajectory(*planner.DubinsPlan, ribbon.Manager) {}

func (p *stdioPublisher) AllDone() {
	fmt.Fprintln(p.out, "done")
}
