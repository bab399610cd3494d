package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

func listDevices() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}
	for i, d := range devices {
		fmt.Printf("[%d] %s  in=%d out=%d default_sr=%.0f\n", i, d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return nil
}

// resolveDevice returns the device at idx if valid, otherwise calls fallback.
func resolveDevice(devices []*portaudio.DeviceInfo, idx int, fallback func() (*portaudio.DeviceInfo, error)) (*portaudio.DeviceInfo, error) {
	if idx >= 0 && idx < len(devices) {
		return devices[idx], nil
	}
	return fallback()
}

// openOutputStream opens a PortAudio output stream that writes interleaved
// float32 frames from buf on each Write call.
func openOutputStream(deviceIdx, channels, sampleRate, framesPerBuffer int, buf []float32) (*portaudio.Stream, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(devices, deviceIdx, portaudio.DefaultOutputDevice)
	if err != nil {
		return nil, err
	}
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}
	return portaudio.OpenStream(params, buf)
}

// openInputStream opens a PortAudio input stream that fills buf with
// interleaved float32 frames on each Read call.
func openInputStream(deviceIdx, channels, sampleRate, framesPerBuffer int, buf []float32) (*portaudio.Stream, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(devices, deviceIdx, portaudio.DefaultInputDevice)
	if err != nil {
		return nil, err
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}
	return portaudio.OpenStream(params, buf)
}
