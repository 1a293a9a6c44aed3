package tinyalsa

import (
	"github.com/gen2brain/alsasync"
	"github.com/gen2brain/alsasync/snd"
)

type cardMixer struct {
	*snd.Mixer
}

func openCardMixer(card uint) (mixer, error) {
	m, err := snd.MixerOpen(card)
	if err != nil {
		return nil, err
	}

	return cardMixer{m}, nil
}

func (m cardMixer) lookup(ref alsasync.ControlRef) (alsasync.MixerControl, error) {
	var ctl *snd.MixerCtl
	var err error

	if ref.ByID {
		ctl, err = m.Ctl(ref.ID)
	} else {
		ctl, err = m.CtlByNameAndIndex(ref.Name, ref.Index)
	}
	if err != nil {
		return nil, err
	}

	return control{ctl}, nil
}

// control adapts a kernel control element to alsasync.MixerControl.
type control struct {
	*snd.MixerCtl
}

func (c control) Type() alsasync.ElemType {
	return elemType(c.MixerCtl.Type())
}

func (c control) TLVAccessible() bool {
	return c.IsTLVAccessible()
}

func elemType(t snd.MixerCtlType) alsasync.ElemType {
	switch t {
	case snd.SNDRV_CTL_ELEM_TYPE_BOOLEAN:
		return alsasync.ElemBoolean
	case snd.SNDRV_CTL_ELEM_TYPE_INTEGER:
		return alsasync.ElemInteger
	case snd.SNDRV_CTL_ELEM_TYPE_ENUMERATED:
		return alsasync.ElemEnumerated
	case snd.SNDRV_CTL_ELEM_TYPE_BYTES:
		return alsasync.ElemBytes
	case snd.SNDRV_CTL_ELEM_TYPE_IEC958:
		return alsasync.ElemIEC958
	case snd.SNDRV_CTL_ELEM_TYPE_INTEGER64:
		return alsasync.ElemInteger64
	default:
		return alsasync.ElemNone
	}
}
