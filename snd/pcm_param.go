package snd

// paramInit opens every mask and interval to its full range so the driver can refine them.
func paramInit(p *sndPcmHwParams) {
	for n := range p.Masks {
		for i := range p.Masks[n].Bits {
			p.Masks[n].Bits[i] = ^uint32(0)
		}
	}

	for n := range p.Mres {
		for i := range p.Mres[n].Bits {
			p.Mres[n].Bits[i] = ^uint32(0)
		}
	}

	for n := range p.Intervals {
		p.Intervals[n] = sndInterval{MinVal: 0, MaxVal: ^uint32(0)}
	}

	for n := range p.Ires {
		p.Ires[n] = sndInterval{MinVal: 0, MaxVal: ^uint32(0)}
	}

	p.Rmask = ^uint32(0)
	p.Info = ^uint32(0)
}

func paramSetMask(p *sndPcmHwParams, param PcmParam, bit uint32) {
	if param < firstMaskParam || param > lastMaskParam {
		return
	}

	mask := &p.Masks[param-firstMaskParam]
	for i := range mask.Bits {
		mask.Bits[i] = 0
	}

	if bit >= SNDRV_MASK_MAX {
		return
	}

	mask.Bits[bit>>5] |= 1 << (bit & 31)
}

func paramSetInt(p *sndPcmHwParams, param PcmParam, val uint32) {
	if param < firstIntervalParam || param > lastIntervalParam {
		return
	}

	interval := &p.Intervals[param-firstIntervalParam]
	interval.MinVal = val
	interval.MaxVal = val
	interval.Flags = SNDRV_PCM_INTERVAL_INTEGER
}

func paramSetMin(p *sndPcmHwParams, param PcmParam, val uint32) {
	if param < firstIntervalParam || param > lastIntervalParam {
		return
	}

	p.Intervals[param-firstIntervalParam].MinVal = val
}

// paramGetInt reads back the lower bound the driver narrowed an interval to.
func paramGetInt(p *sndPcmHwParams, param PcmParam) uint32 {
	if param < firstIntervalParam || param > lastIntervalParam {
		return 0
	}

	return p.Intervals[param-firstIntervalParam].MinVal
}
