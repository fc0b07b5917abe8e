package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/google/gops/agent"
	"github.com/nicolagi/trimerge/diff"
	"github.com/nicolagi/trimerge/merge"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// To set this at build time, use go build -ldflags '-X main.version=something'.
var version = "unknown"

func main() {
	var levels []string
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	verbosity := flag.String("verbosity", "warning", "sets the log `level`, among "+strings.Join(levels, ", "))
	preview := flag.Bool("preview", false, "write a unified diff of base against the merged text to standard error")
	contextLines := flag.Int("context", 3, "`number` of context lines for -preview")
	output := flag.String("o", "", "write the merged text to `file` instead of standard output")
	gops := flag.Bool("gops", false, "start the gops diagnostics agent")
	printVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] base ours theirs\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *printVersion {
		fmt.Println(version)
		return
	}
	if level, err := log.ParseLevel(*verbosity); err != nil {
		log.Fatalf("could not parse log level %q: %v", *verbosity, err)
	} else {
		log.SetLevel(level)
	}
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}
	if *gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.WithField("cause", err).Fatal("could not start gops agent")
		}
	}

	texts := make([]string, 3)
	var group errgroup.Group
	for i, pathname := range flag.Args() {
		i, pathname := i, pathname
		group.Go(func() error {
			b, err := ioutil.ReadFile(pathname)
			if err != nil {
				return errors.WithStack(err)
			}
			texts[i] = string(b)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatalf("could not read inputs: %+v", err)
	}

	base, ours, theirs := texts[0], texts[1], texts[2]
	merged := merge.ThreeWay(base, ours, theirs)

	if *preview {
		if err := diff.UnifiedTo(os.Stderr, base, merged, *contextLines); err != nil {
			log.WithField("cause", err).Error("could not write preview")
		}
	}
	if *output != "" {
		if err := ioutil.WriteFile(*output, []byte(merged), 0666); err != nil {
			log.Fatalf("could not write merged text: %+v", errors.WithStack(err))
		}
		return
	}
	fmt.Print(merged)
}
