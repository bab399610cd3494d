package main

import (
	"flag"
	"fmt"
)

// RunCLI handles subcommand dispatch. Returns true if a subcommand was
// recognised and handled (regardless of whether it ultimately succeeded).
func RunCLI(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "version":
		fmt.Printf("jitterpoolbench %s\n", Version)
		return true
	case "devices":
		return cliDevices(args[1:])
	case "tone":
		return cliTone(args[1:])
	case "listen":
		return cliListen(args[1:])
	case "send":
		return cliSend(args[1:])
	default:
		return false
	}
}

func cliDevices(args []string) bool {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	fs.Parse(args)
	if err := listDevices(); err != nil {
		fmt.Println("error:", err)
		return true
	}
	return true
}

func cliTone(args []string) bool {
	fs := flag.NewFlagSet("tone", flag.ExitOnError)
	rate := fs.Int("rate", 48000, "sample rate (Hz)")
	fpp := fs.Int("fpp", 960, "frames per packet")
	poolSize := fs.Int("pool", 8, "pool slot count")
	rcvLag := fs.Int("rcv-lag", 2, "receive lag (packets)")
	lossPct := fs.Float64("loss", 5.0, "simulated packet loss percentage")
	cycles := fs.Int("cycles", 500, "number of push/pull cycles to run")
	mode := fs.Int("mode", 3, "concealment mode (0-5)")
	fs.Parse(args)

	report, err := runTone(toneParams{
		sampleRate: *rate,
		fpp:        *fpp,
		poolSize:   *poolSize,
		rcvLag:     *rcvLag,
		lossPct:    *lossPct,
		cycles:     *cycles,
		mode:       *mode,
	})
	if err != nil {
		fmt.Println("error:", err)
		return true
	}
	fmt.Printf("cycles=%d glitches=%d glitch_rate=%.4f mean_sq_err=%.6f\n",
		report.cycles, report.glitches, report.glitchRate, report.meanSqErr)
	return true
}

func cliListen(args []string) bool {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	addr := fs.String("addr", ":7070", "UDP listen address")
	rate := fs.Int("rate", 48000, "sample rate (Hz)")
	channels := fs.Int("channels", 2, "channel count")
	bitRes := fs.Int("bit-res", 2, "bit resolution (1,2,3,4)")
	fpp := fs.Int("fpp", 960, "frames per packet")
	poolSize := fs.Int("pool", 8, "pool slot count")
	rcvLag := fs.Int("rcv-lag", 2, "receive lag (packets)")
	mode := fs.Int("mode", 3, "concealment mode (0-5)")
	outputDev := fs.Int("output-device", -1, "output device index (-1 = default)")
	fs.Parse(args)

	if err := runListen(listenParams{
		addr:       *addr,
		sampleRate: *rate,
		channels:   *channels,
		bitRes:     *bitRes,
		fpp:        *fpp,
		poolSize:   *poolSize,
		rcvLag:     *rcvLag,
		mode:       *mode,
		outputDev:  *outputDev,
	}); err != nil {
		fmt.Println("error:", err)
	}
	return true
}

func cliSend(args []string) bool {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:7070", "destination UDP address")
	rate := fs.Int("rate", 48000, "sample rate (Hz)")
	channels := fs.Int("channels", 2, "channel count")
	bitRes := fs.Int("bit-res", 2, "bit resolution (1,2,3,4)")
	fpp := fs.Int("fpp", 960, "frames per packet")
	inputDev := fs.Int("input-device", -1, "input device index (-1 = default)")
	fs.Parse(args)

	if err := runSend(sendParams{
		addr:       *addr,
		sampleRate: *rate,
		channels:   *channels,
		bitRes:     *bitRes,
		fpp:        *fpp,
		inputDev:   *inputDev,
	}); err != nil {
		fmt.Println("error:", err)
	}
	return true
}
