package interp

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/minitalk/pkg/ast"
)

// ---------------------------------------------------------------------------
// Image snapshots
// ---------------------------------------------------------------------------

// ImageMagic identifies a Minitalk image file.
const ImageMagic = "MTIM"

// Image format version
// v1: initial format (globals + reachable arrays and blocks)
const ImageVersion uint32 = 1

// cborEncMode uses canonical encoding for deterministic images.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("interp: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// imageValue is the wire form of a Value. Heap objects are referenced by
// export id so that sharing and cycles survive the round trip.
type imageValue struct {
	Kind  string  `cbor:"k"`
	Int   int64   `cbor:"i,omitempty"`
	Float float64 `cbor:"f,omitempty"`
	Str   string  `cbor:"s,omitempty"`
	Ref   uint32  `cbor:"r,omitempty"`
}

// imageObject is the wire form of one exported heap object.
type imageObject struct {
	Kind     string       `cbor:"k"`
	Elements []imageValue `cbor:"e,omitempty"`
	Params   []string     `cbor:"p,omitempty"`
	Temps    []string     `cbor:"t,omitempty"`
	Source   string       `cbor:"b,omitempty"`
}

// imageFile is the top-level snapshot document.
type imageFile struct {
	Magic   string                `cbor:"magic"`
	Version uint32                `cbor:"version"`
	Globals map[string]imageValue `cbor:"globals"`
	Objects map[uint32]imageObject `cbor:"objects"`
}

// imageWriter assigns export ids while walking the reachable heap.
type imageWriter struct {
	interp  *Interp
	objects map[uint32]imageObject
	exports map[Value]uint32
	nextID  uint32
}

// SaveImage snapshots the globals and every heap object reachable from
// them to path. Blocks snapshot as their parameter list and body source;
// their home activation does not survive the round trip — a loaded block
// is re-homed in the activation supplied to LoadImage.
func (i *Interp) SaveImage(path string) error {
	w := &imageWriter{
		interp:  i,
		objects: make(map[uint32]imageObject),
		exports: make(map[Value]uint32),
	}

	globals := make(map[string]imageValue)
	i.globalsMu.RLock()
	names := make([]string, 0, len(i.globals))
	for name := range i.globals {
		names = append(names, name)
	}
	i.globalsMu.RUnlock()
	for _, name := range names {
		v, _ := i.Global(name)
		globals[name] = w.encode(v)
	}

	img := imageFile{
		Magic:   ImageMagic,
		Version: ImageVersion,
		Globals: globals,
		Objects: w.objects,
	}

	data, err := cborEncMode.Marshal(&img)
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing image %s: %w", path, err)
	}
	log.Infof("saved image %s (%d globals, %d objects)", path, len(globals), len(w.objects))
	return nil
}

func (w *imageWriter) encode(v Value) imageValue {
	switch {
	case v == Nil:
		return imageValue{Kind: "nil"}
	case v == True:
		return imageValue{Kind: "true"}
	case v == False:
		return imageValue{Kind: "false"}
	case v == NoValue:
		return imageValue{Kind: "noValue"}
	case v.IsSmallInt():
		return imageValue{Kind: "int", Int: v.SmallInt()}
	case v.IsFloat():
		return imageValue{Kind: "float", Float: v.Float64()}
	case v.IsString():
		return imageValue{Kind: "string", Str: w.interp.Heap.StringContent(v)}
	case isProcessValue(v):
		// Processes are stack-bound; they snapshot as nil.
		return imageValue{Kind: "nil"}
	case v.IsSymbol():
		return imageValue{Kind: "symbol", Str: w.interp.Symbols.Name(v.SymbolID())}
	case v.IsArray():
		return imageValue{Kind: "array", Ref: w.exportArray(v)}
	case v.IsBlock():
		return imageValue{Kind: "block", Ref: w.exportBlock(v)}
	default:
		return imageValue{Kind: "nil"}
	}
}

func (w *imageWriter) exportArray(v Value) uint32 {
	if id, ok := w.exports[v]; ok {
		return id
	}
	w.nextID++
	id := w.nextID
	// Register before encoding elements so cyclic arrays terminate.
	w.exports[v] = id
	w.objects[id] = imageObject{Kind: "array"}

	arr := w.interp.Heap.Array(v)
	obj := imageObject{Kind: "array", Elements: make([]imageValue, len(arr.Elements))}
	for j, el := range arr.Elements {
		obj.Elements[j] = w.encode(el)
	}
	w.objects[id] = obj
	return id
}

func (w *imageWriter) exportBlock(v Value) uint32 {
	if id, ok := w.exports[v]; ok {
		return id
	}
	w.nextID++
	id := w.nextID
	w.exports[v] = id

	b := w.interp.Heap.Block(v)
	var src string
	for j, s := range b.Body {
		if j > 0 {
			src += ". "
		}
		src += s.String()
	}
	w.objects[id] = imageObject{
		Kind:   "block",
		Params: b.Params,
		Temps:  b.Temps,
		Source: src,
	}
	return id
}

// ---------------------------------------------------------------------------
// Image loading
// ---------------------------------------------------------------------------

// BodyParser parses block body source back into statements. Supplied by
// the driver so that this package does not depend on the parser.
type BodyParser func(src string) ([]ast.Stmt, error)

// LoadImage restores globals from an image file. Loaded blocks are homed
// in the given activation (typically the session's top-level activation).
func (i *Interp) LoadImage(path string, home *Activation, parse BodyParser) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image %s: %w", path, err)
	}

	var img imageFile
	if err := cbor.Unmarshal(data, &img); err != nil {
		return fmt.Errorf("decoding image %s: %w", path, err)
	}
	if img.Magic != ImageMagic {
		return fmt.Errorf("%s is not a Minitalk image", path)
	}
	if img.Version > ImageVersion {
		return fmt.Errorf("image version %d is newer than supported %d",
			img.Version, ImageVersion)
	}

	r := &imageReader{
		interp: i,
		img:    &img,
		home:   home,
		parse:  parse,
		loaded: make(map[uint32]Value),
	}

	for name, iv := range img.Globals {
		v, err := r.decode(iv)
		if err != nil {
			return fmt.Errorf("restoring global %s: %w", name, err)
		}
		i.SetGlobal(name, v)
	}
	log.Infof("loaded image %s (%d globals)", path, len(img.Globals))
	return nil
}

type imageReader struct {
	interp *Interp
	img    *imageFile
	home   *Activation
	parse  BodyParser
	loaded map[uint32]Value
}

func (r *imageReader) decode(iv imageValue) (Value, error) {
	switch iv.Kind {
	case "nil":
		return Nil, nil
	case "true":
		return True, nil
	case "false":
		return False, nil
	case "noValue":
		return NoValue, nil
	case "int":
		return FromSmallInt(iv.Int), nil
	case "float":
		return FromFloat64(iv.Float), nil
	case "string":
		return r.interp.Heap.NewString(iv.Str), nil
	case "symbol":
		return FromSymbolID(r.interp.Symbols.Intern(iv.Str)), nil
	case "array", "block":
		return r.loadObject(iv.Ref)
	default:
		return Nil, fmt.Errorf("unknown image value kind %q", iv.Kind)
	}
}

func (r *imageReader) loadObject(id uint32) (Value, error) {
	if v, ok := r.loaded[id]; ok {
		return v, nil
	}
	obj, ok := r.img.Objects[id]
	if !ok {
		return Nil, fmt.Errorf("dangling object reference %d", id)
	}

	switch obj.Kind {
	case "array":
		// Register the empty array first so cyclic references resolve.
		v := r.interp.Heap.NewArray(make([]Value, len(obj.Elements)))
		r.loaded[id] = v
		arr := r.interp.Heap.Array(v)
		for j, el := range obj.Elements {
			ev, err := r.decode(el)
			if err != nil {
				return Nil, err
			}
			arr.Elements[j] = ev
		}
		return v, nil

	case "block":
		if r.parse == nil {
			return Nil, fmt.Errorf("image contains a block but no parser was supplied")
		}
		body, err := r.parse(obj.Source)
		if err != nil {
			return Nil, fmt.Errorf("reparsing block body: %w", err)
		}
		v := r.interp.Heap.NewBlock(&BlockObject{
			Params: obj.Params,
			Temps:  obj.Temps,
			Body:   body,
			Home:   r.home,
		})
		r.loaded[id] = v
		return v, nil

	default:
		return Nil, fmt.Errorf("unknown image object kind %q", obj.Kind)
	}
}
