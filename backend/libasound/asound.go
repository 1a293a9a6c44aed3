//go:build cgo && libasound

package libasound

/*
#cgo pkg-config: alsa
#include <alsa/asoundlib.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gen2brain/alsasync"
)

type cgoDriver struct{}

func newDriver() (driver, error) {
	return cgoDriver{}, nil
}

func errorOf(op string, rc C.int) error {
	return newAlsaError(op, int(rc), C.GoString(C.snd_strerror(rc)))
}

type pcm struct {
	h *C.snd_pcm_t
}

func (p *pcm) Close() error {
	if p.h == nil {
		return nil
	}

	rc := C.snd_pcm_close(p.h)
	p.h = nil
	if rc < 0 {
		return errorOf("snd_pcm_close", rc)
	}

	return nil
}

func (cgoDriver) openPCM(name string, dir alsasync.Direction, format int32, channels, rate uint32) (pcmHandle, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	stream := C.snd_pcm_stream_t(C.SND_PCM_STREAM_PLAYBACK)
	if dir == alsasync.Capture {
		stream = C.SND_PCM_STREAM_CAPTURE
	}

	var h *C.snd_pcm_t
	if rc := C.snd_pcm_open(&h, cname, stream, 0); rc < 0 {
		return nil, errorOf("snd_pcm_open "+name, rc)
	}

	// Interleaved access, no software resampling.
	rc := C.snd_pcm_set_params(h,
		C.snd_pcm_format_t(format),
		C.SND_PCM_ACCESS_RW_INTERLEAVED,
		C.uint(channels),
		C.uint(rate),
		0,
		C.uint(Latency/time.Microsecond))
	if rc < 0 {
		C.snd_pcm_close(h)

		return nil, errorOf("snd_pcm_set_params "+name, rc)
	}

	return &pcm{h: h}, nil
}

func (cgoDriver) accessControl(name string, ref alsasync.ControlRef, fn func(alsasync.MixerControl) error) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var ctl *C.snd_ctl_t
	if rc := C.snd_ctl_open(&ctl, cname, 0); rc < 0 {
		return errorOf("snd_ctl_open "+name, rc)
	}
	defer C.snd_ctl_close(ctl)

	var id *C.snd_ctl_elem_id_t
	if rc := C.snd_ctl_elem_id_malloc(&id); rc < 0 {
		return errorOf("snd_ctl_elem_id_malloc", rc)
	}
	defer C.snd_ctl_elem_id_free(id)

	C.snd_ctl_elem_id_set_interface(id, C.SND_CTL_ELEM_IFACE_MIXER)
	if ref.ByID {
		C.snd_ctl_elem_id_set_numid(id, C.uint(ref.ID))
	} else {
		celem := C.CString(ref.Name)
		defer C.free(unsafe.Pointer(celem))

		C.snd_ctl_elem_id_set_name(id, celem)
		C.snd_ctl_elem_id_set_index(id, C.uint(ref.Index))
	}

	var info *C.snd_ctl_elem_info_t
	if rc := C.snd_ctl_elem_info_malloc(&info); rc < 0 {
		return errorOf("snd_ctl_elem_info_malloc", rc)
	}
	defer C.snd_ctl_elem_info_free(info)

	C.snd_ctl_elem_info_set_id(info, id)
	if rc := C.snd_ctl_elem_info(ctl, info); rc < 0 {
		return fmt.Errorf("%w: unable to get element info %s: %w", alsasync.ErrNotFound, ref, errorOf("snd_ctl_elem_info", rc))
	}
	C.snd_ctl_elem_info_get_id(info, id)

	var value *C.snd_ctl_elem_value_t
	if rc := C.snd_ctl_elem_value_malloc(&value); rc < 0 {
		return errorOf("snd_ctl_elem_value_malloc", rc)
	}
	defer C.snd_ctl_elem_value_free(value)

	C.snd_ctl_elem_value_set_id(value, id)

	return fn(&element{ctl: ctl, id: id, info: info, value: value})
}

// element is a control looked up for one AccessControl call.
type element struct {
	ctl   *C.snd_ctl_t
	id    *C.snd_ctl_elem_id_t
	info  *C.snd_ctl_elem_info_t
	value *C.snd_ctl_elem_value_t
}

func (e *element) Name() string {
	return C.GoString(C.snd_ctl_elem_info_get_name(e.info))
}

func (e *element) Type() alsasync.ElemType {
	return elemType(int(C.snd_ctl_elem_info_get_type(e.info)))
}

func (e *element) NumValues() uint32 {
	return uint32(C.snd_ctl_elem_info_get_count(e.info))
}

func (e *element) TLVAccessible() bool {
	return C.snd_ctl_elem_info_is_tlv_readable(e.info) != 0 || C.snd_ctl_elem_info_is_tlv_writable(e.info) != 0
}

func (e *element) read() error {
	if rc := C.snd_ctl_elem_read(e.ctl, e.value); rc < 0 {
		return errorOf("unable to read element "+e.Name(), rc)
	}

	return nil
}

func (e *element) write() error {
	if rc := C.snd_ctl_elem_write(e.ctl, e.value); rc < 0 {
		return errorOf("unable to write element "+e.Name(), rc)
	}

	return nil
}

func (e *element) checkIndex(index uint32) error {
	if count := e.NumValues(); index >= count {
		return fmt.Errorf("index %d out of bounds for control %s (count %d)", index, e.Name(), count)
	}

	return nil
}

func (e *element) Value(index uint32) (int64, error) {
	if err := e.checkIndex(index); err != nil {
		return 0, err
	}

	if err := e.read(); err != nil {
		return 0, err
	}

	i := C.uint(index)
	switch e.Type() {
	case alsasync.ElemBoolean:
		return int64(C.snd_ctl_elem_value_get_boolean(e.value, i)), nil
	case alsasync.ElemInteger:
		return int64(C.snd_ctl_elem_value_get_integer(e.value, i)), nil
	case alsasync.ElemInteger64:
		return int64(C.snd_ctl_elem_value_get_integer64(e.value, i)), nil
	case alsasync.ElemEnumerated:
		return int64(C.snd_ctl_elem_value_get_enumerated(e.value, i)), nil
	case alsasync.ElemBytes:
		return int64(C.snd_ctl_elem_value_get_byte(e.value, i)), nil
	default:
		return 0, fmt.Errorf("%w: unknown control element type while reading alsa element %s", alsasync.ErrUnsupportedType, e.Name())
	}
}

func (e *element) SetValue(index uint32, v int64) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}

	if err := e.read(); err != nil {
		return err
	}

	i := C.uint(index)
	switch e.Type() {
	case alsasync.ElemBoolean:
		var b C.long
		if v != 0 {
			b = 1
		}
		C.snd_ctl_elem_value_set_boolean(e.value, i, b)
	case alsasync.ElemInteger:
		C.snd_ctl_elem_value_set_integer(e.value, i, C.long(v))
	case alsasync.ElemInteger64:
		C.snd_ctl_elem_value_set_integer64(e.value, i, C.longlong(v))
	case alsasync.ElemEnumerated:
		C.snd_ctl_elem_value_set_enumerated(e.value, i, C.uint(v))
	case alsasync.ElemBytes:
		C.snd_ctl_elem_value_set_byte(e.value, i, C.uchar(v))
	default:
		return fmt.Errorf("%w: unknown control element type while writing alsa element %s", alsasync.ErrUnsupportedType, e.Name())
	}

	return e.write()
}

func (e *element) Array(dst []byte) error {
	if uint32(len(dst)) > e.NumValues() {
		return fmt.Errorf("array of %d bytes exceeds control %s (%d bytes)", len(dst), e.Name(), e.NumValues())
	}

	if err := e.read(); err != nil {
		return err
	}

	if len(dst) > 0 {
		copy(dst, unsafe.Slice((*byte)(C.snd_ctl_elem_value_get_bytes(e.value)), len(dst)))
	}

	return nil
}

func (e *element) SetArray(src []byte) error {
	if uint32(len(src)) > e.NumValues() {
		return fmt.Errorf("array of %d bytes exceeds control %s (%d bytes)", len(src), e.Name(), e.NumValues())
	}

	if err := e.read(); err != nil {
		return err
	}

	for i, v := range src {
		C.snd_ctl_elem_value_set_byte(e.value, C.uint(i), C.uchar(v))
	}

	return e.write()
}

// tlvBuffer allocates a C buffer of n bytes rounded up to whole words, at least two words.
func tlvBuffer(n int) (unsafe.Pointer, int) {
	size := max((n+3)&^3, 8)

	return C.calloc(1, C.size_t(size)), size
}

func (e *element) TLV(dst []byte) error {
	buf, size := tlvBuffer(len(dst))
	defer C.free(buf)

	if rc := C.snd_ctl_elem_tlv_read(e.ctl, e.id, (*C.uint)(buf), C.uint(size)); rc < 0 {
		return errorOf("unable to read TLV of element "+e.Name(), rc)
	}

	copy(dst, unsafe.Slice((*byte)(buf), len(dst)))

	return nil
}

// SetTLV writes src, which starts with its own type and length words.
func (e *element) SetTLV(src []byte) error {
	buf, _ := tlvBuffer(len(src))
	defer C.free(buf)

	copy(unsafe.Slice((*byte)(buf), len(src)), src)

	if rc := C.snd_ctl_elem_tlv_write(e.ctl, e.id, (*C.uint)(buf)); rc < 0 {
		return errorOf("unable to write TLV of element "+e.Name(), rc)
	}

	return nil
}
