package vmm

import (
	"encoding/binary"
	"io"

	"github.com/sigurn/crc8"

	"pios/kernel/kfmt"
	"pios/kernel/mm"
)

// ImageSize is the size in bytes of a serialized section table.
const ImageSize = mm.TableEntries * 4

// imageCRC8 is used to checksum table images handed to the boot loader.
var imageCRC8 = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xF4, Name: "CRC-8"})

// Encode writes the table to buf in the little-endian layout expected by the
// MMU.
func (t *SectionTable) Encode(buf []byte) {
	_ = buf[ImageSize-1]
	for page := mm.Page(0); page < mm.TableEntries; page++ {
		binary.LittleEndian.PutUint32(buf[page*4:], uint32(t.Entry(page)))
	}
}

// Decode replaces the table contents with the image in buf.
func (t *SectionTable) Decode(buf []byte) {
	_ = buf[ImageSize-1]

	t.lock.Acquire()
	for page := mm.Page(0); page < mm.TableEntries; page++ {
		t.store(page, SectionEntry(binary.LittleEndian.Uint32(buf[page*4:])))
	}
	t.lock.Release()
}

// WriteTo implements io.WriterTo.
func (t *SectionTable) WriteTo(w io.Writer) (int64, error) {
	var buf [ImageSize]byte
	t.Encode(buf[:])

	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom. It reads exactly ImageSize bytes and
// leaves the table untouched if fewer are available.
func (t *SectionTable) ReadFrom(r io.Reader) (int64, error) {
	var buf [ImageSize]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(n), err
	}

	t.Decode(buf[:])
	return int64(n), nil
}

// Checksum returns the CRC-8 of the serialized table.
func (t *SectionTable) Checksum() uint8 {
	var buf [ImageSize]byte
	t.Encode(buf[:])

	csum := crc8.Init(imageCRC8)
	csum = crc8.Update(csum, buf[:], imageCRC8)
	return crc8.Complete(csum, imageCRC8)
}

// DumpTo writes one line per mapped section to w. Runs of sections that map
// contiguous physical memory with identical attributes are collapsed into a
// single line.
func (t *SectionTable) DumpTo(w io.Writer) {
	var (
		runStart, runEnd mm.Page
		runEntry         SectionEntry
		inRun            bool
	)

	flush := func() {
		if !inRun {
			return
		}

		start := uint32(runStart.Address())
		end := uint32(runEnd.Address()) + (mm.SectionSize - 1)
		switch section, err := runEntry.Decode(); err {
		case nil:
			kfmt.Fprintf(w, "0x%8x-0x%8x -> 0x%8x %s", start, end, uint32(section.Base), section.Permission.String())
			if section.Cacheable {
				kfmt.Fprintf(w, " C")
			}
			if section.Bufferable {
				kfmt.Fprintf(w, " B")
			}
			if section.ExecuteNever {
				kfmt.Fprintf(w, " XN")
			}
			kfmt.Fprintf(w, "\n")
		default:
			kfmt.Fprintf(w, "0x%8x-0x%8x -> %s entry 0x%8x (%s)\n", start, end, runEntry.Type().String(), uint32(runEntry), err.Message)
		}
		inRun = false
	}

	t.Walk(func(page mm.Page, entry SectionEntry) bool {
		if inRun && page == runEnd+1 && entry == runEntry+SectionEntry((page-runStart)<<mm.SectionShift) && entry.Type() == EntrySection {
			runEnd = page
			return true
		}

		flush()
		runStart, runEnd, runEntry, inRun = page, page, entry, true
		return true
	})
	flush()
}
