package snd

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// MixerCtl represents an individual control element of a Mixer.
type MixerCtl struct {
	mixer *Mixer
	info  sndCtlElemInfo
}

// ID returns the numeric ID of the control.
func (ctl *MixerCtl) ID() uint32 {
	if ctl == nil {
		return 0
	}

	return ctl.info.Id.Numid
}

// Name returns the name of the control.
func (ctl *MixerCtl) Name() string {
	if ctl == nil {
		return ""
	}

	return cString(ctl.info.Id.Name[:])
}

// Index returns the element index the driver gave the control.
func (ctl *MixerCtl) Index() uint32 {
	if ctl == nil {
		return 0
	}

	return ctl.info.Id.Index
}

// Type returns the value type of the control.
func (ctl *MixerCtl) Type() MixerCtlType {
	if ctl == nil {
		return SNDRV_CTL_ELEM_TYPE_NONE
	}

	return MixerCtlType(ctl.info.Typ)
}

// NumValues returns the number of elements the control holds.
func (ctl *MixerCtl) NumValues() uint32 {
	if ctl == nil {
		return 0
	}

	return ctl.info.Count
}

// Access returns the access flags of the control.
func (ctl *MixerCtl) Access() CtlAccessFlag {
	if ctl == nil {
		return 0
	}

	return CtlAccessFlag(ctl.info.Access)
}

// IsTLVAccessible reports whether the control exchanges its payload through the TLV ioctls.
func (ctl *MixerCtl) IsTLVAccessible() bool {
	return ctl.Access()&SNDRV_CTL_ELEM_ACCESS_TLV_READWRITE != 0
}

// Value reads the element at index. Boolean, integer, 64-bit integer, enumerated and byte
// elements are supported.
func (ctl *MixerCtl) Value(index uint32) (int64, error) {
	if ctl == nil {
		return 0, fmt.Errorf("control is nil")
	}

	if index >= ctl.info.Count {
		return 0, fmt.Errorf("index %d out of bounds for control %s (count %d)", index, ctl.Name(), ctl.info.Count)
	}

	ev, err := ctl.read()
	if err != nil {
		return 0, err
	}

	return ctl.decode(ev, index)
}

// SetValue writes the element at index, leaving the other elements of the control untouched.
func (ctl *MixerCtl) SetValue(index uint32, value int64) error {
	if ctl == nil {
		return fmt.Errorf("control is nil")
	}

	if index >= ctl.info.Count {
		return fmt.Errorf("index %d out of bounds for control %s (count %d)", index, ctl.Name(), ctl.info.Count)
	}

	ev, err := ctl.read()
	if err != nil {
		return err
	}

	if err := ctl.encode(ev, index, value); err != nil {
		return err
	}

	return ctl.write(ev)
}

// Array copies the raw element storage of the control into dst.
// len(dst) must not exceed the control's storage size.
func (ctl *MixerCtl) Array(dst []byte) error {
	if ctl == nil {
		return fmt.Errorf("control is nil")
	}

	size, err := ctl.storageSize()
	if err != nil {
		return err
	}

	if len(dst) > size {
		return fmt.Errorf("array of %d bytes exceeds storage of control %s (%d bytes)", len(dst), ctl.Name(), size)
	}

	ev, err := ctl.read()
	if err != nil {
		return err
	}

	copy(dst, ev.Value[:len(dst)])

	return nil
}

// SetArray replaces the leading raw element storage of the control with src.
func (ctl *MixerCtl) SetArray(src []byte) error {
	if ctl == nil {
		return fmt.Errorf("control is nil")
	}

	size, err := ctl.storageSize()
	if err != nil {
		return err
	}

	if len(src) > size {
		return fmt.Errorf("array of %d bytes exceeds storage of control %s (%d bytes)", len(src), ctl.Name(), size)
	}

	ev, err := ctl.read()
	if err != nil {
		return err
	}

	copy(ev.Value[:], src)

	return ctl.write(ev)
}

// TLV reads len(dst) bytes of the control's TLV payload.
func (ctl *MixerCtl) TLV(dst []byte) error {
	if ctl == nil {
		return fmt.Errorf("control is nil")
	}

	if ctl.Access()&SNDRV_CTL_ELEM_ACCESS_TLV_READ == 0 {
		return fmt.Errorf("control %s is not TLV readable", ctl.Name())
	}

	buf := ctl.tlvBuffer(len(dst))
	if err := ioctl(ctl.mixer.file.Fd(), SNDRV_CTL_IOCTL_TLV_READ, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return fmt.Errorf("ioctl TLV_READ failed for control %s: %w", ctl.Name(), err)
	}

	copy(dst, buf[unsafe.Sizeof(sndCtlTlv{}):])

	return nil
}

// SetTLV writes src as the control's TLV payload.
func (ctl *MixerCtl) SetTLV(src []byte) error {
	if ctl == nil {
		return fmt.Errorf("control is nil")
	}

	if ctl.Access()&SNDRV_CTL_ELEM_ACCESS_TLV_WRITE == 0 {
		return fmt.Errorf("control %s is not TLV writable", ctl.Name())
	}

	buf := ctl.tlvBuffer(len(src))
	copy(buf[unsafe.Sizeof(sndCtlTlv{}):], src)

	if err := ioctl(ctl.mixer.file.Fd(), SNDRV_CTL_IOCTL_TLV_WRITE, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return fmt.Errorf("ioctl TLV_WRITE failed for control %s: %w", ctl.Name(), err)
	}

	return nil
}

// tlvBuffer lays out a TLV header followed by room for n payload bytes. The payload is
// rounded up to whole words and is at least two words long, the minimum the kernel accepts.
func (ctl *MixerCtl) tlvBuffer(n int) []byte {
	hdr := int(unsafe.Sizeof(sndCtlTlv{}))
	size := tlvPayloadSize(n)
	buf := make([]byte, hdr+size)

	binary.NativeEndian.PutUint32(buf[0:4], ctl.info.Id.Numid)
	binary.NativeEndian.PutUint32(buf[4:8], uint32(size))

	return buf
}

func tlvPayloadSize(n int) int {
	return max((n+3)&^3, 8)
}

func (ctl *MixerCtl) read() (*sndCtlElemValue, error) {
	if ctl.mixer == nil || ctl.mixer.file == nil {
		return nil, fmt.Errorf("mixer of control %s is closed", ctl.Name())
	}

	ev := &sndCtlElemValue{Id: ctl.info.Id}
	if err := ioctl(ctl.mixer.file.Fd(), SNDRV_CTL_IOCTL_ELEM_READ, uintptr(unsafe.Pointer(ev))); err != nil {
		return nil, fmt.Errorf("ioctl ELEM_READ failed for control %s: %w", ctl.Name(), err)
	}

	return ev, nil
}

func (ctl *MixerCtl) write(ev *sndCtlElemValue) error {
	if ctl.mixer == nil || ctl.mixer.file == nil {
		return fmt.Errorf("mixer of control %s is closed", ctl.Name())
	}

	if err := ioctl(ctl.mixer.file.Fd(), SNDRV_CTL_IOCTL_ELEM_WRITE, uintptr(unsafe.Pointer(ev))); err != nil {
		return fmt.Errorf("ioctl ELEM_WRITE failed for control %s: %w", ctl.Name(), err)
	}

	return nil
}

// elemSize returns the width of one element in the value union.
func (ctl *MixerCtl) elemSize() (int, error) {
	switch ctl.Type() {
	case SNDRV_CTL_ELEM_TYPE_BOOLEAN, SNDRV_CTL_ELEM_TYPE_INTEGER:
		return clongSize, nil
	case SNDRV_CTL_ELEM_TYPE_INTEGER64:
		return 8, nil
	case SNDRV_CTL_ELEM_TYPE_ENUMERATED:
		return 4, nil
	case SNDRV_CTL_ELEM_TYPE_BYTES:
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported type %s for control %s", ctl.Type(), ctl.Name())
	}
}

func (ctl *MixerCtl) storageSize() (int, error) {
	size, err := ctl.elemSize()
	if err != nil {
		return 0, err
	}

	return size * int(ctl.info.Count), nil
}

func (ctl *MixerCtl) decode(ev *sndCtlElemValue, index uint32) (int64, error) {
	size, err := ctl.elemSize()
	if err != nil {
		return 0, err
	}

	b := ev.Value[int(index)*size:]

	switch size {
	case 1:
		return int64(b[0]), nil
	case 4:
		if ctl.Type() == SNDRV_CTL_ELEM_TYPE_ENUMERATED {
			return int64(binary.NativeEndian.Uint32(b)), nil
		}

		return int64(int32(binary.NativeEndian.Uint32(b))), nil
	default:
		return int64(binary.NativeEndian.Uint64(b)), nil
	}
}

func (ctl *MixerCtl) encode(ev *sndCtlElemValue, index uint32, value int64) error {
	size, err := ctl.elemSize()
	if err != nil {
		return err
	}

	b := ev.Value[int(index)*size:]

	switch size {
	case 1:
		b[0] = uint8(value)
	case 4:
		binary.NativeEndian.PutUint32(b, uint32(value))
	default:
		binary.NativeEndian.PutUint64(b, uint64(value))
	}

	return nil
}
