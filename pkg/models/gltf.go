package models

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/texel/pkg/math3d"
)

// GLTFLoader loads glTF and GLB files into Mesh format.
type GLTFLoader struct {
	// Normalize recenters the result and scales it to [-1, 1].
	Normalize bool
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLB loads a binary glTF (.glb) or JSON glTF file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadGLBWithTexture loads a model and decodes its first image. The image is
// nil when the file has none.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	l := NewGLTFLoader()
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.build(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	img, err := firstImage(doc, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, img, nil
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.build(doc, filepath.Base(path))
}

func (l *GLTFLoader) build(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.Normalize {
		mesh.Normalize()
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// processMesh appends the triangle primitives of m to mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			var uv math3d.Vec2
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image; meshes keep V up.
				uv = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])), uv)
		}

		// glTF front faces are counter-clockwise, same as Mesh.
		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.AddFace(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]))
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(base+i, base+i+1, base+i+2)
			}
		}
	}
	return nil
}

// firstImage decodes the first image in the document that can be read,
// whether stored in a buffer view, a data URI or a file next to it.
func firstImage(doc *gltf.Document, dir string) (image.Image, error) {
	for i, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			b, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				return nil, fmt.Errorf("read image %d: %w", i, err)
			}
			data = b
		case img.IsEmbeddedResource():
			b, err := img.MarshalData()
			if err != nil {
				return nil, fmt.Errorf("read image %d: %w", i, err)
			}
			data = b
		case img.URI != "":
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				return nil, fmt.Errorf("read image %d: %w", i, err)
			}
			data = b
		}
		if len(data) == 0 {
			continue
		}

		decoded, err := decodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		return decoded, nil
	}
	return nil, nil
}

// decodeImage decodes the two image formats glTF allows. It does not go
// through image.Decode: a TGA decoder linked into the same binary registers
// an empty magic string that matches every input.
func decodeImage(data []byte) (image.Image, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode(bytes.NewReader(data))
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return jpeg.Decode(bytes.NewReader(data))
	}
	return nil, image.ErrFormat
}
