package main

import (
	"fmt"
	"os"

	"github.com/abiosoft/ishell"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/tkaspar/fatfs/commands"
	"github.com/tkaspar/fatfs/fs"
)

func main() {
	volumeFlag := pflag.StringP("volume", "v", "", "path to the volume file")
	configFlag := pflag.StringP("config", "c", "", "path to the config file")
	logLevelFlag := pflag.String("log-level", "", "log level (debug, info, warning, error)")
	pflag.Parse()

	cfg, err := LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.SetLevel(level)

	volumePath := cfg.Volume
	if *volumeFlag != "" {
		volumePath = *volumeFlag
	}
	if pflag.NArg() > 0 {
		volumePath = pflag.Arg(0)
	}
	if volumePath == "" {
		fmt.Fprintln(os.Stderr, "no volume path given, use --volume or a positional argument")
		os.Exit(1)
	}

	shell := ishell.New()
	shell.SetPrompt(cfg.Prompt)
	shell.Set("volume_path", volumePath)
	shell.Set("fs", &fs.Filesystem{})

	_, err = os.Stat(volumePath)
	if err == nil {
		// Mount an existing volume right away.
		disk, err := fs.OpenDisk(volumePath)
		if err != nil {
			fmt.Println(err)
		} else {
			mounted, err := fs.Mount(disk)
			if err != nil {
				_ = disk.Close()
				fmt.Println(err)
			} else {
				*(shell.Get("fs").(*fs.Filesystem)) = *mounted
			}
		}
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "format",
		Help: "create and mount a blank volume, e.g. format 8MB",
		Func: commands.Format,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "mount",
		Help: "mount the volume",
		Func: commands.Mount,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "umount",
		Help: "persist metadata and close the volume",
		Func: commands.Umount,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "info",
		Help: "show volume summary",
		Func: commands.Info,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "create",
		Help: "create an empty file",
		Func: commands.Create,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "rm",
		Help: "delete a file",
		Func: commands.Rm,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "ls",
		Help: "list files",
		Func: commands.Ls,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "open",
		Help: "open a file, prints the descriptor",
		Func: commands.Open,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "close",
		Help: "close a descriptor",
		Func: commands.Close,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stat",
		Help: "show the size of an open file",
		Func: commands.Stat,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "seek",
		Help: "move a descriptor's offset",
		Func: commands.Seek,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "read",
		Help: "read bytes at the descriptor's offset",
		Func: commands.Read,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "write",
		Help: "write bytes at the descriptor's offset",
		Func: commands.Write,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "cat",
		Help: "print a whole file",
		Func: commands.Cat,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "incp",
		Help: "copy a host file into the volume",
		Func: commands.Incp,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "outcp",
		Help: "copy a file out to the host",
		Func: commands.Outcp,
	})

	shell.Run()
}
