// Package d3d11 holds the raw Direct3D 11 and DXGI COM bindings used by the
// Direct3D 11 render backend. The bindings only exist on windows; on other
// platforms the package is empty.
package d3d11
