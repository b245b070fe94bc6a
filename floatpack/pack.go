package floatpack

// Width-selection policies for the encoder. A candidate width is accepted
// only when the truncation keeps the floating-point class unchanged and the
// validator accepts (original, widened-back). When no narrower width is
// acceptable the source width is returned.

// PackNative32 packs a float32 using native widths only: it tries W16 and
// otherwise stays at W32.
func PackNative32(f float32, v Validator32) PackedFloat {
	p := FromFloat32(f)

	if packed, ok := tryPack32(p, W16, f, v); ok {
		return packed
	}

	return p
}

// PackOptimal32 packs a float32 into the narrowest acceptable width:
// W16 then W8, with W24 as the fallback between W16 and W32.
func PackOptimal32(f float32, v Validator32) PackedFloat {
	p := FromFloat32(f)

	if p16, ok := tryPack32(p, W16, f, v); ok {
		if p8, ok := tryPack32(p, W8, f, v); ok {
			return p8
		}

		return p16
	}

	if p24, ok := tryPack32(p, W24, f, v); ok {
		return p24
	}

	return p
}

// PackNative64 packs a float64 using native widths only: it tries W32, then
// W16, and otherwise stays at W64.
func PackNative64(f float64, v Validator64) PackedFloat {
	p := FromFloat64(f)

	if p32, ok := tryPack64(p, W32, f, v); ok {
		if p16, ok := tryPack64(p, W16, f, v); ok {
			return p16
		}

		return p32
	}

	return p
}

// PackOptimal64 packs a float64 into the narrowest acceptable width. The
// search narrows in halves: if W32 is acceptable it descends toward W16/W8
// with W24 as fallback; otherwise it tries W48 (then W40), then W56.
func PackOptimal64(f float64, v Validator64) PackedFloat {
	p := FromFloat64(f)

	if p32, ok := tryPack64(p, W32, f, v); ok {
		if p16, ok := tryPack64(p, W16, f, v); ok {
			if p8, ok := tryPack64(p, W8, f, v); ok {
				return p8
			}

			return p16
		}

		if p24, ok := tryPack64(p, W24, f, v); ok {
			return p24
		}

		return p32
	}

	if p48, ok := tryPack64(p, W48, f, v); ok {
		if p40, ok := tryPack64(p, W40, f, v); ok {
			return p40
		}

		return p48
	}

	if p56, ok := tryPack64(p, W56, f, v); ok {
		return p56
	}

	return p
}

func tryPack32(p PackedFloat, w Width, f float32, v Validator32) (PackedFloat, bool) {
	back, packed, ok := p.TryTruncate(w)
	if !ok {
		return PackedFloat{}, false
	}
	if !v(f, back.Float32()) {
		return PackedFloat{}, false
	}

	return packed, true
}

func tryPack64(p PackedFloat, w Width, f float64, v Validator64) (PackedFloat, bool) {
	back, packed, ok := p.TryTruncate(w)
	if !ok {
		return PackedFloat{}, false
	}
	if !v(f, back.Float64()) {
		return PackedFloat{}, false
	}

	return packed, true
}
