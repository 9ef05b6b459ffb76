package kv

import (
	"encoding/json"

	"lintang/routeviz/pkg/overlay"

	"github.com/DataDog/zstd"
)

func encodeOverlay(ov *overlay.Overlay) ([]byte, error) {
	bb, err := json.Marshal(ov)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func decodeOverlay(bbCompressed []byte) (*overlay.Overlay, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	ov := &overlay.Overlay{}
	if err := json.Unmarshal(bb, ov); err != nil {
		return nil, err
	}
	return ov, nil
}

func encodeMarkers(ms []overlay.Marker) ([]byte, error) {
	bb, err := json.Marshal(ms)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func decodeMarkers(bbCompressed []byte) ([]overlay.Marker, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var ms []overlay.Marker
	if err := json.Unmarshal(bb, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
