// Command mkpgdir generates the section table that the boot code installs
// before enabling the MMU.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"pios/kernel/kfmt"
	"pios/kernel/mm"
)

var (
	outFile  = flag.String("o", "pgdir.bin", "output image file")
	dumpFile = flag.String("dump", "", "decode and print an existing image instead of generating one")
	kernBase = flag.Uint64("kernbase", 0x80000000, "virtual address of the kernel window")
	ramSize  = flag.Uint("ram", 256, "RAM size in MiB")
	devBase  = flag.Uint64("devbase", 0x20000000, "physical address of the peripheral window")
	devSize  = flag.Uint("devsize", 16, "peripheral window size in MiB")
)

// maxWindowMb is the size of the whole 32-bit address space in MiB.
const maxWindowMb = 4096

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mkpgdir] error: %s\n", err.Error())
	os.Exit(1)
}

func main() {
	flag.Parse()
	kfmt.SetOutputSink(os.Stdout)

	if *dumpFile != "" {
		table, err := readImage(*dumpFile)
		if err != nil {
			exit(err)
		}

		kfmt.Printf("%s (checksum 0x%2x):\n", *dumpFile, table.Checksum())
		table.DumpTo(&kfmt.PrefixWriter{Sink: os.Stdout, Prefix: []byte("  ")})
		return
	}

	if *kernBase > 0xffffffff || *devBase > 0xffffffff {
		exit(errors.New("addresses must fit in 32 bits"))
	}

	if *ramSize > maxWindowMb || *devSize > maxWindowMb {
		exit(errors.New("window sizes must not exceed 4096 MiB"))
	}

	l := layout{
		kernBase: mm.VirtAddr(*kernBase),
		ramSize:  mm.Size(*ramSize) * mm.Mb,
		devBase:  mm.PhysAddr(*devBase),
		devSize:  mm.Size(*devSize) * mm.Mb,
	}

	table, kerr := buildTable(l)
	if kerr != nil {
		exit(kerr)
	}

	if err := writeImage(*outFile, table); err != nil {
		exit(err)
	}

	kfmt.Printf("wrote %s (checksum 0x%2x)\n", *outFile, table.Checksum())
	for _, r := range l.regions() {
		kfmt.Printf("  %8s 0x%8x -> 0x%8x %d sections %s\n",
			r.name, uint32(r.virt), uint32(r.phys), r.size.Sections(), r.perm.String())
	}
}
