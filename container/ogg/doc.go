// Package ogg stores lpcfeat packet streams in an Ogg container
// (RFC 3533).
//
// A stream starts with a BOS page carrying a single LPCFHead identification
// packet. Every following packet is one 8-byte superframe packet. Packets
// never span pages; the writer groups a fixed number of them per page and
// sets the granule position to the number of 16 kHz samples covered by all
// packets completed on the page. The last page carries the EOS flag.
//
// # Page Structure
//
// An Ogg page has the following structure:
//
//	Bytes 0-3:   "OggS" capture pattern
//	Byte 4:      Stream structure version (always 0)
//	Byte 5:      Header type flags (continuation, BOS, EOS)
//	Bytes 6-13:  Granule position
//	Bytes 14-17: Bitstream serial number
//	Bytes 18-21: Page sequence number
//	Bytes 22-25: CRC checksum
//	Byte 26:     Number of segments
//	Bytes 27+:   Segment table (one byte per segment)
//	Remaining:   Page payload data
//
// # LPCFHead
//
//	Bytes 0-7:   "LPCFHead"
//	Byte 8:      Version (1)
//	Byte 9:      Packet size in bytes (8)
//	Bytes 10-11: Samples per packet, little-endian (640)
//	Bytes 12-15: Sample rate, little-endian (16000)
//	Bytes 16-19: Codebook fingerprint, little-endian
//	Byte 20:     Flags (bit 0: mid-anchor relaxation)
//
// The CRC is the Ogg polynomial 0x04C11DB7 computed over the page with the
// CRC field zeroed.
package ogg
