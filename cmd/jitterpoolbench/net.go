package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/gordonklaus/portaudio"

	"jitterpool"
)

type listenParams struct {
	addr       string
	sampleRate int
	channels   int
	bitRes     int
	fpp        int
	poolSize   int
	rcvLag     int
	mode       int
	outputDev  int
}

// runListen receives raw PCM packets over UDP, conceals loss through a
// jitterpool.Engine, and plays the result out a PortAudio output device.
// It runs until interrupted (Ctrl-C).
func runListen(p listenParams) error {
	e, err := jitterpool.New(jitterpool.Config{
		SampleRate:      p.sampleRate,
		Channels:        p.channels,
		BitResolution:   p.bitRes,
		FramesPerPacket: p.fpp,
		PoolSize:        p.poolSize,
		RcvLag:          p.rcvLag,
		Mode:            jitterpool.Mode(p.mode),
	})
	if err != nil {
		return fmt.Errorf("jitterpool.New: %w", err)
	}

	udpAddr, err := net.ResolveUDPAddr("udp", p.addr)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", p.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", p.addr, err)
	}
	defer conn.Close()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	playbackBuf := make([]float32, p.fpp*p.channels)
	stream, err := openOutputStream(p.outputDev, p.channels, p.sampleRate, p.fpp, playbackBuf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	packetBytes := e.PacketBytes()
	recvBuf := make([]byte, packetBytes)
	outBuf := make([]byte, packetBytes)

	pullCh := make(chan struct{})
	go func() {
		for range pullCh {
			e.Pull(outBuf)
			decodeInterleavedFloat32(outBuf, playbackBuf, p.channels, p.bitRes)
			stream.Write()
		}
	}()

	log.Printf("[jitterpoolbench] listening on %s (fpp=%d channels=%d)", p.addr, p.fpp, p.channels)

	go func() {
		for {
			n, _, err := conn.ReadFromUDP(recvBuf)
			if err != nil {
				return
			}
			if n != packetBytes {
				continue // malformed/foreign packet, ignore
			}
			pkt := make([]byte, packetBytes)
			copy(pkt, recvBuf[:n])
			e.Push(pkt)
		}
	}()

	ticker := newFrameTicker(p.sampleRate, p.fpp)
	defer ticker.stop()
	for {
		select {
		case <-sig:
			close(pullCh)
			return nil
		case <-ticker.c:
			pullCh <- struct{}{}
		}
	}
}

type sendParams struct {
	addr       string
	sampleRate int
	channels   int
	bitRes     int
	fpp        int
	inputDev   int
}

// runSend captures from a PortAudio input device and transmits raw PCM
// packets over UDP, one per captured frame buffer. No reliability,
// reordering protection, or encryption is applied — this is a bench tool,
// not a transport.
func runSend(p sendParams) error {
	udpAddr, err := net.ResolveUDPAddr("udp", p.addr)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", p.addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return fmt.Errorf("dial %q: %w", p.addr, err)
	}
	defer conn.Close()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	captureBuf := make([]float32, p.fpp*p.channels)
	stream, err := openInputStream(p.inputDev, p.channels, p.sampleRate, p.fpp, captureBuf)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	defer stream.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	c := codecFor(p.channels, p.bitRes)
	pkt := make([]byte, c.PacketBytes(p.fpp))

	log.Printf("[jitterpoolbench] sending to %s (fpp=%d channels=%d)", p.addr, p.fpp, p.channels)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if err := stream.Read(); err != nil {
				return
			}
			encodeInterleavedFloat32(captureBuf, pkt, p.channels, p.bitRes)
			if _, err := conn.Write(pkt); err != nil {
				return
			}
		}
	}()

	select {
	case <-sig:
	case <-done:
	}
	return nil
}
