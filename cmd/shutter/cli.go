package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"shutter/internal/errors"
	"shutter/internal/ops"
	"shutter/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "shutter",
		Usage:   "Web page screenshot capture and store",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(deps),
			listCmd(deps),
			infoCmd(deps),
			viewCmd(deps),
			doctorCmd(deps),
			webCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture a screenshot of a web page",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: "Viewport width in pixels"},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "Viewport height in pixels"},
			&cli.IntFlag{Name: "delay", Usage: "Seconds to wait before capturing"},
			&cli.IntFlag{Name: "timeout", Usage: "Overall capture timeout in seconds"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			output, err := ops.Take(c.Context, deps, ops.TakeInput{
				URL:            c.Args().First(),
				Width:          c.Int("width"),
				Height:         c.Int("height"),
				DelaySeconds:   c.Int("delay"),
				TimeoutSeconds: c.Int("timeout"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored screenshots, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, deps, ops.ListInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// infoCmd creates the info command.
func infoCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show file metadata for a stored screenshot",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			output, err := ops.Info(c.Context, deps, ops.InfoInput{
				ScreenshotID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// viewCmd creates the view command.
func viewCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Write a stored screenshot's image bytes to a file",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Destination file path"},
			&cli.BoolFlag{Name: "raw", Usage: "Write the stored bytes without re-encoding"},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: "Re-encode quality 1-100"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Re-encode format: jpeg, png, or webp"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			optimize := !c.Bool("raw")
			output, err := ops.View(c.Context, deps, ops.ViewInput{
				ScreenshotID: c.Args().First(),
				Optimize:     &optimize,
				Quality:      c.Int("quality"),
				Format:       c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}

			dest := c.String("output")
			if err := os.WriteFile(dest, output.Image.Data, 0644); err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(map[string]any{
				"success":            true,
				"id":                 output.ID,
				"output":             dest,
				"format":             output.Image.Format,
				"size_bytes":         output.Image.SizeBytes,
				"optimization_ratio": output.Image.OptimizationRatio,
			})
		},
	}
}

// doctorCmd creates the doctor command.
func doctorCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check renderer availability and storage configuration",
		Action: func(c *cli.Context) error {
			candidates := deps.Invoker.CheckCandidates(c.Context)

			healthy := false
			for _, candidate := range candidates {
				if candidate.Available {
					healthy = true
					break
				}
			}

			return outputJSON(map[string]any{
				"healthy":      healthy,
				"storage_root": deps.Cfg.StorageRoot,
				"candidates":   candidates,
				"report":       deps.Invoker.Report(c.Context),
			})
		},
	}
}

// webCmd creates the web command.
func webCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the screenshot browsing UI over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8474, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(deps, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ShutterError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
