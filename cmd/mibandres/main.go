package main

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/devsnd/mibandres"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newTool(c *cli.Context) *mibandres.Tool {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return mibandres.New(logger)
}

func assetDir(c *cli.Context, container string) string {
	if dir := c.String("dir"); dir != "" {
		return dir
	}
	return strings.TrimSuffix(container, filepath.Ext(container)) + ".unpacked"
}

func outputName(container string) string {
	ext := filepath.Ext(container)
	if ext == "" {
		ext = ".res"
	}
	return strings.TrimSuffix(container, filepath.Ext(container)) + ".new" + ext
}

func main() {
	app := cli.NewApp()

	app.Name = "mibandres"
	app.Usage = "Mi Band firmware resource utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	dirFlag := &cli.StringFlag{
		Name:  "dir, d",
		Usage: "asset directory, defaults to the container name plus .unpacked",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "unpack",
			Usage:       "Unpack a resource container into editable PNG assets",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{dirFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				container := c.Args().First()
				if err := newTool(c).Unpack(container, assetDir(c, container)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "repack",
			Usage:       "Repack edited PNG assets into a new resource container",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{dirFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				container := c.Args().First()
				if err := newTool(c).Repack(container, assetDir(c, container), outputName(container)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "roundtrip",
			Usage:       "Unpack and immediately repack, to verify a container",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{dirFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				container := c.Args().First()
				if err := newTool(c).Roundtrip(container, assetDir(c, container), outputName(container)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "List the bitmaps in a resource container",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := newTool(c).Info(c.Args().First(), os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "fit",
			Usage:       "Convert an arbitrary image into a valid asset for one record",
			Description: "",
			ArgsUsage:   "FILE INDEX IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "output, o",
					Usage: "output asset path, defaults to INDEX.png in the asset directory",
				},
				dirFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				container := c.Args().First()

				index, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out := c.String("output")
				if out == "" {
					out = filepath.Join(assetDir(c, container), mibandres.AssetName(index))
				}

				if err := newTool(c).Fit(container, index, c.Args().Get(2), out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
