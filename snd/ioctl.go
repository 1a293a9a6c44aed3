package snd

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl performs a generic ioctl syscall.
func ioctl(fd uintptr, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return errno
	}

	return nil
}

const (
	iocNrbits    = 8
	iocTypebits  = 8
	iocSizebits  = 14
	iocNrshift   = 0
	iocTypeshift = iocNrshift + iocNrbits
	iocSizeshift = iocTypeshift + iocTypebits
	iocDirshift  = iocSizeshift + iocSizebits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

// ioc builds an ioctl request code the way the _IOC macro does.
func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirshift) | (typ << iocTypeshift) | (nr << iocNrshift) | (size << iocSizeshift)
}

func io(typ, nr uintptr) uintptr         { return ioc(iocNone, typ, nr, 0) }
func iow(typ, nr, size uintptr) uintptr  { return ioc(iocWrite, typ, nr, size) }
func ior(typ, nr, size uintptr) uintptr  { return ioc(iocRead, typ, nr, size) }
func iowr(typ, nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, typ, nr, size) }

var (
	// PCM IOCTLs
	SNDRV_PCM_IOCTL_INFO      uintptr
	SNDRV_PCM_IOCTL_HW_PARAMS uintptr
	SNDRV_PCM_IOCTL_SW_PARAMS uintptr
	SNDRV_PCM_IOCTL_PREPARE   uintptr
	SNDRV_PCM_IOCTL_DROP      uintptr

	// Control IOCTLs
	SNDRV_CTL_IOCTL_CARD_INFO  uintptr
	SNDRV_CTL_IOCTL_ELEM_LIST  uintptr
	SNDRV_CTL_IOCTL_ELEM_INFO  uintptr
	SNDRV_CTL_IOCTL_ELEM_READ  uintptr
	SNDRV_CTL_IOCTL_ELEM_WRITE uintptr
	SNDRV_CTL_IOCTL_TLV_READ   uintptr
	SNDRV_CTL_IOCTL_TLV_WRITE  uintptr
)

func init() {
	// PCM IOCTLs ('A' for ALSA)
	SNDRV_PCM_IOCTL_INFO = ior('A', 0x01, unsafe.Sizeof(sndPcmInfo{}))
	SNDRV_PCM_IOCTL_HW_PARAMS = iowr('A', 0x11, unsafe.Sizeof(sndPcmHwParams{}))
	SNDRV_PCM_IOCTL_SW_PARAMS = iowr('A', 0x13, unsafe.Sizeof(sndPcmSwParams{}))
	SNDRV_PCM_IOCTL_PREPARE = io('A', 0x40)
	SNDRV_PCM_IOCTL_DROP = io('A', 0x43)

	// Control IOCTLs ('U')
	SNDRV_CTL_IOCTL_CARD_INFO = ior('U', 0x01, unsafe.Sizeof(sndCtlCardInfo{}))
	SNDRV_CTL_IOCTL_ELEM_LIST = iowr('U', 0x10, unsafe.Sizeof(sndCtlElemList{}))
	SNDRV_CTL_IOCTL_ELEM_INFO = iowr('U', 0x11, unsafe.Sizeof(sndCtlElemInfo{}))
	SNDRV_CTL_IOCTL_ELEM_READ = iowr('U', 0x12, unsafe.Sizeof(sndCtlElemValue{}))
	SNDRV_CTL_IOCTL_ELEM_WRITE = iowr('U', 0x13, unsafe.Sizeof(sndCtlElemValue{}))
	SNDRV_CTL_IOCTL_TLV_READ = iowr('U', 0x1a, unsafe.Sizeof(sndCtlTlv{}))
	SNDRV_CTL_IOCTL_TLV_WRITE = iowr('U', 0x1b, unsafe.Sizeof(sndCtlTlv{}))
}
