package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/framewin/internal/ipc"
)

// Window system calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "pin", "unpin":
		os.Exit(runPin(os.Args[1], os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: framewin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the configured windows and render (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  list                List windows and their state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open NAME           Create a window now")
	fmt.Fprintln(w, "  close NAME          Destroy a window (it comes back next frame)")
	fmt.Fprintln(w, "  move NAME           Move and/or resize an open window")
	fmt.Fprintln(w, "  pin NAME            Make a window undestroyable")
	fmt.Fprintln(w, "  unpin NAME          Let the user close a window for good")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'framewin <command> --help' for command-specific options.")
}

// parseFlags parses args and maps flag errors to exit codes. ok is false when
// the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewin status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("presenter:      %s\n", status.Presenter)
	fmt.Printf("fps:            %d\n", status.FPS)
	fmt.Printf("windows:        %d (%d open)\n", status.WindowCount, status.OpenCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewin list")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(os.Stdout, windows)
	return 0
}

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATE\tHANDLE\tGEOMETRY\tFLAGS")
	for _, win := range windows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", win.Name, win.State, formatHandle(win.Handle), formatGeometry(win), formatFlags(win))
	}
	tw.Flush()
}

func formatHandle(h uint32) string {
	if h == 0 {
		return "-"
	}
	return fmt.Sprintf("0x%x", h)
}

func formatGeometry(win ipc.WindowInfo) string {
	dim := func(p *int) string {
		if p == nil {
			return "?"
		}
		return strconv.Itoa(*p)
	}
	return fmt.Sprintf("%sx%s+%s+%s", dim(win.Width), dim(win.Height), dim(win.X), dim(win.Y))
}

func formatFlags(win ipc.WindowInfo) string {
	var out string
	add := func(on bool, s string) {
		if !on {
			return
		}
		if out != "" {
			out += ","
		}
		out += s
	}
	add(win.Foreground, "foreground")
	add(win.Iconic, "minimized")
	add(win.Undestroyable, "undestroyable")
	if out == "" {
		return "-"
	}
	return out
}

// nameArg parses a command that takes exactly one window name.
func nameArg(cmd string, args []string) (string, int, bool) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: framewin %s NAME\n", cmd)
	}
	if code, ok := parseFlags(fs, args); !ok {
		return "", code, false
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return "", 2, false
	}
	return fs.Arg(0), 0, true
}

func runOpen(args []string) int {
	name, code, ok := nameArg("open", args)
	if !ok {
		return code
	}
	info, err := ipc.NewClient().OpenWindow(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(os.Stdout, []ipc.WindowInfo{*info})
	return 0
}

func runClose(args []string) int {
	name, code, ok := nameArg("close", args)
	if !ok {
		return code
	}
	info, err := ipc.NewClient().CloseWindow(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(os.Stdout, []ipc.WindowInfo{*info})
	return 0
}

func runPin(cmd string, args []string) int {
	name, code, ok := nameArg(cmd, args)
	if !ok {
		return code
	}
	info, err := ipc.NewClient().SetUndestroyable(name, cmd == "pin")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(os.Stdout, []ipc.WindowInfo{*info})
	return 0
}

// optionalInt is a flag that records whether it was set.
type optionalInt struct {
	v   int
	set bool
}

func (o *optionalInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.Itoa(o.v)
}

func (o *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.v, o.set = v, true
	return nil
}

func (o *optionalInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var x, y, width, height optionalInt
	fs.Var(&x, "x", "Left edge of the client area")
	fs.Var(&y, "y", "Top edge of the client area")
	fs.Var(&width, "width", "Client width (minimum 150)")
	fs.Var(&height, "height", "Client height (minimum 50)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewin move [--x N] [--y N] [--width N] [--height N] NAME")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	info, err := ipc.NewClient().SetGeometry(ipc.GeometryPayload{
		Name:   fs.Arg(0),
		X:      x.ptr(),
		Y:      y.ptr(),
		Width:  width.ptr(),
		Height: height.ptr(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(os.Stdout, []ipc.WindowInfo{*info})
	return 0
}
