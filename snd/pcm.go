package snd

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Config holds the hardware and software parameters of a PCM stream.
type Config struct {
	Channels         uint32
	Rate             uint32
	PeriodSize       uint32
	PeriodCount      uint32
	Format           PcmFormat
	StartThreshold   uint32
	StopThreshold    uint32
	SilenceThreshold uint32
	AvailMin         uint32
}

// PCM represents an open ALSA PCM device handle.
type PCM struct {
	file       *os.File
	config     Config
	flags      PcmFlag
	bufferSize uint32 // In frames
}

// PcmPath returns the device node of a PCM stream.
func PcmPath(card, device uint, flags PcmFlag) string {
	streamChar := 'p'
	if (flags & PCM_IN) != 0 {
		streamChar = 'c'
	}

	return fmt.Sprintf("/dev/snd/pcmC%dD%d%c", card, device, streamChar)
}

// PcmOpen opens a hardware PCM device and applies config to it.
// Only direct hardware devices (/dev/snd/pcmC<card>D<device>[pc]) are supported.
func PcmOpen(card, device uint, flags PcmFlag, config *Config) (*PCM, error) {
	path := PcmPath(card, device, flags)

	// Open non-blocking so a busy device fails instead of hanging, then restore blocking mode.
	file, err := os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCM device %s: %w", path, err)
	}

	if (flags & PCM_NONBLOCK) == 0 {
		currentFlags, err := unix.FcntlInt(file.Fd(), unix.F_GETFL, 0)
		if err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("fcntl F_GETFL for %s failed: %w", path, err)
		}
		if _, err = unix.FcntlInt(file.Fd(), unix.F_SETFL, currentFlags&^syscall.O_NONBLOCK); err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("failed to set blocking mode on %s: %w", path, err)
		}
	}

	var info sndPcmInfo
	if err := ioctl(file.Fd(), SNDRV_PCM_IOCTL_INFO, uintptr(unsafe.Pointer(&info))); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("ioctl INFO failed: %w", err)
	}

	pcm := &PCM{
		file:  file,
		flags: flags,
	}

	if err := pcm.SetConfig(config); err != nil {
		_ = pcm.Close()

		return nil, fmt.Errorf("failed to set PCM config: %w", err)
	}

	return pcm, nil
}

// IsReady checks if the PCM handle is valid.
func (p *PCM) IsReady() bool {
	return p != nil && p.file != nil
}

// Close releases the PCM device. Closing a closed PCM is a no-op.
func (p *PCM) Close() error {
	if !p.IsReady() {
		return nil
	}

	err := p.file.Close()
	p.bufferSize = 0
	p.file = nil

	return err
}

// Config returns the configuration the driver settled on.
func (p *PCM) Config() Config {
	return p.config
}

// BufferSize returns the ring buffer size in frames.
func (p *PCM) BufferSize() uint32 {
	return p.bufferSize
}

// SetConfig installs hardware and software parameters on the PCM device.
func (p *PCM) SetConfig(config *Config) error {
	if !p.IsReady() {
		return fmt.Errorf("PCM is not open")
	}

	if config == nil {
		return fmt.Errorf("PCM config is nil")
	}

	p.config = *config

	hwParams := &sndPcmHwParams{}
	paramInit(hwParams)

	paramSetMask(hwParams, SNDRV_PCM_HW_PARAM_FORMAT, uint32(config.Format))
	paramSetMask(hwParams, SNDRV_PCM_HW_PARAM_SUBFORMAT, 0)
	paramSetMask(hwParams, SNDRV_PCM_HW_PARAM_ACCESS, SNDRV_PCM_ACCESS_RW_INTERLEAVED)
	paramSetMin(hwParams, SNDRV_PCM_HW_PARAM_PERIOD_SIZE, config.PeriodSize)
	paramSetInt(hwParams, SNDRV_PCM_HW_PARAM_CHANNELS, config.Channels)
	paramSetInt(hwParams, SNDRV_PCM_HW_PARAM_PERIODS, config.PeriodCount)
	paramSetInt(hwParams, SNDRV_PCM_HW_PARAM_RATE, config.Rate)

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_HW_PARAMS, uintptr(unsafe.Pointer(hwParams))); err != nil {
		return fmt.Errorf("ioctl HW_PARAMS failed: %w", err)
	}

	p.config.PeriodSize = paramGetInt(hwParams, SNDRV_PCM_HW_PARAM_PERIOD_SIZE)
	p.config.PeriodCount = paramGetInt(hwParams, SNDRV_PCM_HW_PARAM_PERIODS)
	p.config.Channels = paramGetInt(hwParams, SNDRV_PCM_HW_PARAM_CHANNELS)
	p.config.Rate = paramGetInt(hwParams, SNDRV_PCM_HW_PARAM_RATE)
	p.bufferSize = p.config.PeriodSize * p.config.PeriodCount

	if p.config.Channels == 0 || p.config.Rate == 0 || p.config.PeriodSize == 0 || p.config.PeriodCount == 0 {
		return fmt.Errorf("driver finalized invalid PCM configuration (Channels=%d, Rate=%d, PeriodSize=%d, PeriodCount=%d)",
			p.config.Channels, p.config.Rate, p.config.PeriodSize, p.config.PeriodCount)
	}

	swParams := &sndPcmSwParams{}
	swParams.TstampMode = 1 // SNDRV_PCM_TSTAMP_ENABLE
	swParams.PeriodStep = 1

	if p.config.AvailMin == 0 {
		p.config.AvailMin = p.config.PeriodSize
	}
	swParams.AvailMin = sndPcmUframesT(p.config.AvailMin)

	if p.config.StartThreshold == 0 {
		if (p.flags & PCM_IN) != 0 {
			p.config.StartThreshold = 1
		} else {
			p.config.StartThreshold = p.bufferSize / 2
		}
	}
	swParams.StartThreshold = sndPcmUframesT(p.config.StartThreshold)

	if p.config.StopThreshold == 0 {
		if (p.flags & PCM_IN) != 0 {
			p.config.StopThreshold = p.bufferSize * 10
		} else {
			p.config.StopThreshold = p.bufferSize
		}
	}
	swParams.StopThreshold = sndPcmUframesT(p.config.StopThreshold)

	swParams.XferAlign = sndPcmUframesT(p.config.PeriodSize / 2) // Needed for old kernels
	swParams.SilenceThreshold = sndPcmUframesT(p.config.SilenceThreshold)

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_SW_PARAMS, uintptr(unsafe.Pointer(swParams))); err != nil {
		return fmt.Errorf("ioctl SW_PARAMS failed: %w", err)
	}

	return nil
}

// Prepare readies the PCM device for I/O.
func (p *PCM) Prepare() error {
	if !p.IsReady() {
		return fmt.Errorf("PCM is not open")
	}

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_PREPARE, 0); err != nil {
		return fmt.Errorf("ioctl PREPARE failed: %w", err)
	}

	return nil
}

// Drop stops the stream immediately, discarding pending frames.
func (p *PCM) Drop() error {
	if !p.IsReady() {
		return nil
	}

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_DROP, 0); err != nil {
		return fmt.Errorf("ioctl DROP failed: %w", err)
	}

	return nil
}

// PcmFormatToBits returns the number of bits per sample for a given format.
func PcmFormatToBits(f PcmFormat) uint32 {
	switch f {
	case SNDRV_PCM_FORMAT_S8, SNDRV_PCM_FORMAT_U8:
		return 8
	case SNDRV_PCM_FORMAT_S16_LE, SNDRV_PCM_FORMAT_S16_BE, SNDRV_PCM_FORMAT_U16_LE, SNDRV_PCM_FORMAT_U16_BE:
		return 16
	case SNDRV_PCM_FORMAT_S24_LE, SNDRV_PCM_FORMAT_S24_BE, SNDRV_PCM_FORMAT_U24_LE, SNDRV_PCM_FORMAT_U24_BE,
		SNDRV_PCM_FORMAT_S32_LE, SNDRV_PCM_FORMAT_S32_BE, SNDRV_PCM_FORMAT_U32_LE, SNDRV_PCM_FORMAT_U32_BE:
		// 24-bit samples live in 32-bit containers.
		return 32
	default:
		return 0
	}
}
