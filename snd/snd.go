// Package snd talks to the Linux ALSA kernel interface directly through /dev/snd, modeled after the tinyalsa library.
//
// It covers the part of the driver surface needed to configure PCM streams and to read and
// write mixer control elements. It does not transfer audio frames.
package snd

// PcmFormat defines the sample format for a PCM stream.
// These values correspond to the SNDRV_PCM_FORMAT_* constants in the ALSA kernel headers.
type PcmFormat int32

const (
	SNDRV_PCM_FORMAT_INVALID PcmFormat = -1
	SNDRV_PCM_FORMAT_S8      PcmFormat = 0
	SNDRV_PCM_FORMAT_U8      PcmFormat = 1
	SNDRV_PCM_FORMAT_S16_LE  PcmFormat = 2
	SNDRV_PCM_FORMAT_S16_BE  PcmFormat = 3
	SNDRV_PCM_FORMAT_U16_LE  PcmFormat = 4
	SNDRV_PCM_FORMAT_U16_BE  PcmFormat = 5
	SNDRV_PCM_FORMAT_S24_LE  PcmFormat = 6
	SNDRV_PCM_FORMAT_S24_BE  PcmFormat = 7
	SNDRV_PCM_FORMAT_U24_LE  PcmFormat = 8
	SNDRV_PCM_FORMAT_U24_BE  PcmFormat = 9
	SNDRV_PCM_FORMAT_S32_LE  PcmFormat = 10
	SNDRV_PCM_FORMAT_S32_BE  PcmFormat = 11
	SNDRV_PCM_FORMAT_U32_LE  PcmFormat = 12
	SNDRV_PCM_FORMAT_U32_BE  PcmFormat = 13
)

// PcmFlag defines flags for opening a PCM stream.
type PcmFlag uint32

const (
	// PCM_OUT specifies a playback stream.
	PCM_OUT PcmFlag = 0
	// PCM_IN specifies a capture stream.
	PCM_IN PcmFlag = 0x10000000
	// PCM_NONBLOCK specifies that I/O operations should not block.
	PCM_NONBLOCK PcmFlag = 0x00000010
)

// MixerCtlType defines the value type of mixer control.
type MixerCtlType int32

const (
	SNDRV_CTL_ELEM_TYPE_NONE       MixerCtlType = 0
	SNDRV_CTL_ELEM_TYPE_BOOLEAN    MixerCtlType = 1
	SNDRV_CTL_ELEM_TYPE_INTEGER    MixerCtlType = 2
	SNDRV_CTL_ELEM_TYPE_ENUMERATED MixerCtlType = 3
	SNDRV_CTL_ELEM_TYPE_BYTES      MixerCtlType = 4
	SNDRV_CTL_ELEM_TYPE_IEC958     MixerCtlType = 5
	SNDRV_CTL_ELEM_TYPE_INTEGER64  MixerCtlType = 6
)

// String returns the short type name used by amixer-like tools.
func (t MixerCtlType) String() string {
	switch t {
	case SNDRV_CTL_ELEM_TYPE_BOOLEAN:
		return "BOOL"
	case SNDRV_CTL_ELEM_TYPE_INTEGER:
		return "INT"
	case SNDRV_CTL_ELEM_TYPE_ENUMERATED:
		return "ENUM"
	case SNDRV_CTL_ELEM_TYPE_BYTES:
		return "BYTE"
	case SNDRV_CTL_ELEM_TYPE_IEC958:
		return "IEC958"
	case SNDRV_CTL_ELEM_TYPE_INTEGER64:
		return "INT64"
	default:
		return "UNKNOWN"
	}
}

// CtlAccessFlag defines the access permissions for a mixer control.
type CtlAccessFlag uint32

const (
	// If set, the control is readable.
	SNDRV_CTL_ELEM_ACCESS_READ CtlAccessFlag = 1 << 0
	// If set, the control is writable.
	SNDRV_CTL_ELEM_ACCESS_WRITE CtlAccessFlag = 1 << 1
	// If set, the control carries its payload through the TLV ioctls.
	SNDRV_CTL_ELEM_ACCESS_TLV_READ      CtlAccessFlag = 1 << 4
	SNDRV_CTL_ELEM_ACCESS_TLV_WRITE     CtlAccessFlag = 1 << 5
	SNDRV_CTL_ELEM_ACCESS_TLV_READWRITE CtlAccessFlag = SNDRV_CTL_ELEM_ACCESS_TLV_READ | SNDRV_CTL_ELEM_ACCESS_TLV_WRITE
)

// SNDRV_CTL_ELEM_IFACE_MIXER is the interface of ordinary mixer controls.
const SNDRV_CTL_ELEM_IFACE_MIXER = 2

// PcmParam identifies a hardware parameter for a PCM device.
// These values correspond to the SNDRV_PCM_HW_PARAM_* constants.
type PcmParam int

const (
	SNDRV_PCM_HW_PARAM_ACCESS       PcmParam = 0
	SNDRV_PCM_HW_PARAM_FORMAT       PcmParam = 1
	SNDRV_PCM_HW_PARAM_SUBFORMAT    PcmParam = 2
	SNDRV_PCM_HW_PARAM_SAMPLE_BITS  PcmParam = 8
	SNDRV_PCM_HW_PARAM_FRAME_BITS   PcmParam = 9
	SNDRV_PCM_HW_PARAM_CHANNELS     PcmParam = 10
	SNDRV_PCM_HW_PARAM_RATE         PcmParam = 11
	SNDRV_PCM_HW_PARAM_PERIOD_TIME  PcmParam = 12
	SNDRV_PCM_HW_PARAM_PERIOD_SIZE  PcmParam = 13
	SNDRV_PCM_HW_PARAM_PERIOD_BYTES PcmParam = 14
	SNDRV_PCM_HW_PARAM_PERIODS      PcmParam = 15
	SNDRV_PCM_HW_PARAM_BUFFER_TIME  PcmParam = 16
	SNDRV_PCM_HW_PARAM_BUFFER_SIZE  PcmParam = 17
	SNDRV_PCM_HW_PARAM_BUFFER_BYTES PcmParam = 18
	SNDRV_PCM_HW_PARAM_TICK_TIME    PcmParam = 19

	firstMaskParam     = SNDRV_PCM_HW_PARAM_ACCESS
	lastMaskParam      = SNDRV_PCM_HW_PARAM_SUBFORMAT
	firstIntervalParam = SNDRV_PCM_HW_PARAM_SAMPLE_BITS
	lastIntervalParam  = SNDRV_PCM_HW_PARAM_TICK_TIME
)

const (
	SNDRV_PCM_INTERVAL_INTEGER = 1 << 2

	SNDRV_PCM_ACCESS_RW_INTERLEAVED = 3

	// SNDRV_MASK_MAX is the number of bits a hw-params mask can hold.
	SNDRV_MASK_MAX = 256
)
