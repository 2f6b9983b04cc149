package vita

import "fmt"

// Class ID masks
const (
	OUIMask             = 0x00FFFFFF
	InformationCodeMask = 0xFFFF0000
	PacketCodeMask      = 0x0000FFFF
)

// VendorResolver maps a 24-bit OUI to a vendor label. Unknown OUIs
// resolve to "".
type VendorResolver interface {
	Lookup(oui uint32) string
}

// VendorIdentity is the vendor view over the high class ID word
type VendorIdentity struct {
	OUI   uint32 // Low 24 bits of class_id high
	Label string // Resolved vendor label, empty if unknown
}

func (v VendorIdentity) String() string {
	if v.Label == "" {
		return fmt.Sprintf("0x%06x", v.OUI)
	}
	return fmt.Sprintf("0x%06x %s", v.OUI, v.Label)
}

// ClassCode is the view over the low class ID word.
// InformationCode keeps its position in the high half of the word.
type ClassCode struct {
	InformationCode uint32
	PacketCode      uint32
}

func (c ClassCode) String() string {
	return fmt.Sprintf("ClassCode{info=0x%08x, packet=0x%08x}", c.InformationCode, c.PacketCode)
}

// ExtractOUI masks a class ID word down to its 24-bit OUI
func ExtractOUI(classIDHigh uint32) uint32 {
	return classIDHigh & OUIMask
}

// DecodeVendor resolves the vendor identity. A nil resolver yields an
// empty label.
func DecodeVendor(classIDHigh uint32, resolver VendorResolver) VendorIdentity {
	id := VendorIdentity{OUI: ExtractOUI(classIDHigh)}
	if resolver != nil {
		id.Label = resolver.Lookup(id.OUI)
	}
	return id
}

// DecodeClass splits the low class ID word into its two codes
func DecodeClass(classIDLow uint32) ClassCode {
	return ClassCode{
		InformationCode: classIDLow & InformationCodeMask,
		PacketCode:      classIDLow & PacketCodeMask,
	}
}
