package main

import (
	"os"

	"golang.org/x/sys/unix"

	"pios/kernel/mm/vmm"
)

// writeImage stores the encoded table in the file at path, replacing any
// previous contents. The file is written through a shared mapping and
// flushed before returning.
func writeImage(path string, table *vmm.SectionTable) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	fd := int(f.Fd())
	if err = unix.Ftruncate(fd, vmm.ImageSize); err != nil {
		return err
	}

	mem, err := unix.Mmap(fd, 0, vmm.ImageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	defer unix.Munmap(mem)

	table.Encode(mem)
	return unix.Msync(mem, unix.MS_SYNC)
}

// readImage loads a table image from the file at path.
func readImage(path string) (*vmm.SectionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := new(vmm.SectionTable)
	if _, err = table.ReadFrom(f); err != nil {
		return nil, err
	}

	return table, nil
}
