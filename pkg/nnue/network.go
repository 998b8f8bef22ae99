// Package nnue implements a quantized, incrementally-updated neural
// position evaluator: a single hidden layer over 768 piece/square
// features (12 piece codes x 64 squares), ReLU activation, and a scalar
// output layer.
package nnue

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	// InputSize is the feature count: 12 piece codes x 64 squares.
	InputSize = 768
	// HiddenSize is the width of the single hidden layer.
	HiddenSize = 256

	magic = "CWNNUEv1"

	// defaultOutputScale is used for files whose quantization word is 0,
	// including files Encode writes from a Network whose OutputScale is 0.
	defaultOutputScale = 16
)

// Network holds quantized (int16) weights loaded from a trained file.
type Network struct {
	FeatureWeights []int16 // InputSize * HiddenSize, row-major by feature
	FeatureBias    []int16 // HiddenSize
	OutputWeights  []int16 // HiddenSize
	OutputBias     int16
	OutputScale    int32 // divisor applied to the output layer's raw sum
}

// Load reads a network from the on-disk quantized format:
//
//	8 bytes  magic "CWNNUEv1"
//	int32    input size (must equal InputSize)
//	int32    hidden size (must equal HiddenSize)
//	int32    output size (must equal 1)
//	int32    output scale (divisor applied to the output layer's sum; 0 means defaultOutputScale)
//	int16[InputSize*HiddenSize]  feature weights
//	int16[HiddenSize]            feature bias
//	int16[HiddenSize]            output weights
//	int16                        output bias
//	uint32   CRC-32 checksum of every byte preceding it
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nnue: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a network from r, as Load does from a file.
func Decode(r io.Reader) (*Network, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("nnue: read: %w", err)
	}
	expectedLen := 8 + 4*4 + 2*(InputSize*HiddenSize+HiddenSize+HiddenSize+1) + 4
	if len(body) < expectedLen {
		return nil, fmt.Errorf("nnue: truncated file: got %d bytes, want at least %d", len(body), expectedLen)
	}

	if string(body[:8]) != magic {
		return nil, fmt.Errorf("nnue: bad magic %q", body[:8])
	}

	cur := body[8:]
	inputSize := int32(binary.LittleEndian.Uint32(cur[0:4]))
	hiddenSize := int32(binary.LittleEndian.Uint32(cur[4:8]))
	outputSize := int32(binary.LittleEndian.Uint32(cur[8:12]))
	outputScale := int32(binary.LittleEndian.Uint32(cur[12:16]))
	cur = cur[16:]

	if inputSize != InputSize || hiddenSize != HiddenSize || outputSize != 1 {
		return nil, fmt.Errorf("nnue: size mismatch: input=%d hidden=%d output=%d", inputSize, hiddenSize, outputSize)
	}
	if outputScale == 0 {
		outputScale = defaultOutputScale
	}

	n := &Network{
		FeatureWeights: make([]int16, InputSize*HiddenSize),
		FeatureBias:    make([]int16, HiddenSize),
		OutputWeights:  make([]int16, HiddenSize),
		OutputScale:    outputScale,
	}
	cur = readInt16Slice(cur, n.FeatureWeights)
	cur = readInt16Slice(cur, n.FeatureBias)
	cur = readInt16Slice(cur, n.OutputWeights)
	n.OutputBias = int16(binary.LittleEndian.Uint16(cur[0:2]))
	cur = cur[2:]

	wantChecksum := binary.LittleEndian.Uint32(cur[0:4])
	gotChecksum := crc32.ChecksumIEEE(body[:len(body)-4])
	if gotChecksum != wantChecksum {
		return nil, fmt.Errorf("nnue: checksum mismatch: got %#x, want %#x", gotChecksum, wantChecksum)
	}

	return n, nil
}

func readInt16Slice(buf []byte, dst []int16) []byte {
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[2*i : 2*i+2]))
	}
	return buf[2*len(dst):]
}

// Encode writes n in the Load/Decode format, including a fresh checksum.
// Used by training/export tooling and by tests constructing fixtures.
func Encode(w io.Writer, n *Network) error {
	var body []byte
	body = append(body, []byte(magic)...)
	body = appendInt32(body, InputSize)
	body = appendInt32(body, HiddenSize)
	body = appendInt32(body, 1)
	body = appendInt32(body, n.OutputScale)
	body = appendInt16Slice(body, n.FeatureWeights)
	body = appendInt16Slice(body, n.FeatureBias)
	body = appendInt16Slice(body, n.OutputWeights)
	body = appendInt16(body, n.OutputBias)

	checksum := crc32.ChecksumIEEE(body)
	body = appendInt32(body, int32(checksum))

	_, err := w.Write(body)
	return err
}

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

func appendInt16(buf []byte, v int16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return append(buf, b[:]...)
}

func appendInt16Slice(buf []byte, vs []int16) []byte {
	for _, v := range vs {
		buf = appendInt16(buf, v)
	}
	return buf
}
