package opengl

type (
	Enum        uint32
	Attrib      uint32
	Object      struct{ V uint32 }
	Buffer      Object
	Framebuffer Object
	Program     Object
	Shader      Object
	Texture     Object
	VertexArray Object
	Uniform     struct{ V int32 }
)

func (u Uniform) Valid() bool {
	return u.V != -1
}

// Functions is the subset of OpenGL 3.3 core the backend calls. The real
// implementation lives in the gogl package; tests substitute a recorder.
type Functions interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindBuffer(target Enum, b Buffer)
	BindBufferBase(target Enum, index int, b Buffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindTexture(target Enum, t Texture)
	BindVertexArray(a VertexArray)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum)
	BufferData(target Enum, size int, usage Enum, data []byte)
	BufferSubData(target Enum, offset int, src []byte)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	ClearDepth(d float64)
	ClearStencil(s int)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CreateVertexArray() VertexArray
	CullFace(mode Enum)
	DeleteBuffer(v Buffer)
	DeleteFramebuffer(v Framebuffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteTexture(v Texture)
	DeleteVertexArray(a VertexArray)
	DepthFunc(f Enum)
	DepthMask(mask bool)
	Disable(cap Enum)
	DisableVertexAttribArray(a Attrib)
	DrawBuffers(bufs []Enum)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int)
	Enable(cap Enum)
	EnableVertexAttribArray(a Attrib)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	FrontFace(mode Enum)
	GetError() Enum
	GetInteger(pname Enum) int
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetString(pname Enum) string
	GetUniformBlockIndex(p Program, name string) uint32
	GetUniformLocation(p Program, name string) Uniform
	LinkProgram(p Program)
	PixelStorei(pname Enum, param int)
	PolygonMode(face, mode Enum)
	ShaderSource(s Shader, src string)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte)
	Uniform1i(dst Uniform, v int)
	UniformBlockBinding(p Program, blockIndex, binding uint32)
	UseProgram(p Program)
	VertexAttribDivisor(index Attrib, divisor int)
	VertexAttribIPointer(dst Attrib, size int, ty Enum, stride, offset int)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}

const (
	ARRAY_BUFFER             = 0x8892
	BACK                     = 0x0405
	BLEND                    = 0x0BE2
	BYTE                     = 0x1400
	CCW                      = 0x0901
	CLAMP_TO_EDGE            = 0x812F
	COLOR_ATTACHMENT0        = 0x8CE0
	COLOR_BUFFER_BIT         = 0x4000
	COMPILE_STATUS           = 0x8B81
	CULL_FACE                = 0x0B44
	CW                       = 0x0900
	DEPTH_ATTACHMENT         = 0x8D00
	DEPTH_BUFFER_BIT         = 0x0100
	DEPTH_COMPONENT          = 0x1902
	DEPTH_COMPONENT16        = 0x81A5
	DEPTH_STENCIL            = 0x84F9
	DEPTH_STENCIL_ATTACHMENT = 0x821A
	DEPTH_TEST               = 0x0B71
	DEPTH24_STENCIL8         = 0x88F0
	DST_ALPHA                = 0x0304
	DST_COLOR                = 0x0306
	DYNAMIC_DRAW             = 0x88E8
	ELEMENT_ARRAY_BUFFER     = 0x8893
	FILL                     = 0x1B02
	FLOAT                    = 0x1406
	FRAGMENT_SHADER          = 0x8B30
	FRAMEBUFFER              = 0x8D40
	FRAMEBUFFER_COMPLETE     = 0x8CD5
	FRONT                    = 0x0404
	FRONT_AND_BACK           = 0x0408
	FUNC_ADD                 = 0x8006
	FUNC_SUBTRACT            = 0x800A
	INVALID_INDEX            = 0xFFFFFFFF
	LEQUAL                   = 0x0203
	LESS                     = 0x0201
	LINE                     = 0x1B01
	LINEAR                   = 0x2601
	LINK_STATUS              = 0x8B82
	MAX_COLOR_ATTACHMENTS    = 0x8CDF
	MAX_TEXTURE_IMAGE_UNITS  = 0x8872
	MAX_TEXTURE_SIZE         = 0x0D33
	NEAREST                  = 0x2600
	NO_ERROR                 = 0
	NONE                     = 0
	ONE                      = 1
	ONE_MINUS_DST_ALPHA      = 0x0305
	ONE_MINUS_DST_COLOR      = 0x0307
	ONE_MINUS_SRC_ALPHA      = 0x0303
	ONE_MINUS_SRC_COLOR      = 0x0301
	RED                      = 0x1903
	RENDERER                 = 0x1F01
	R8                       = 0x8229
	RG                       = 0x8227
	RG8                      = 0x822B
	RGB                      = 0x1907
	RGB8                     = 0x8051
	RGBA                     = 0x1908
	RGBA8                    = 0x8058
	SHORT                    = 0x1402
	SRC_ALPHA                = 0x0302
	SRC_COLOR                = 0x0300
	STATIC_DRAW              = 0x88E4
	STENCIL_BUFFER_BIT       = 0x0400
	TEXTURE_2D               = 0x0DE1
	TEXTURE_MAG_FILTER       = 0x2800
	TEXTURE_MIN_FILTER       = 0x2801
	TEXTURE_SWIZZLE_A        = 0x8E45
	TEXTURE_SWIZZLE_B        = 0x8E44
	TEXTURE_SWIZZLE_G        = 0x8E43
	TEXTURE_SWIZZLE_R        = 0x8E42
	TEXTURE_WRAP_S           = 0x2802
	TEXTURE_WRAP_T           = 0x2803
	TEXTURE0                 = 0x84C0
	TRIANGLES                = 0x0004
	UNIFORM_BUFFER           = 0x8A11
	UNPACK_ALIGNMENT         = 0x0CF5
	UNSIGNED_BYTE            = 0x1401
	UNSIGNED_INT             = 0x1405
	UNSIGNED_INT_24_8        = 0x84FA
	UNSIGNED_SHORT           = 0x1403
	VENDOR                   = 0x1F00
	VERSION                  = 0x1F02
	VERTEX_SHADER            = 0x8B31
	ZERO                     = 0
)
