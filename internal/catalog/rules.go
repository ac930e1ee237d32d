package catalog

// Categories is shared by every listing page.
var Categories = Normalizer{
	Sentinel: Uncategorized,
	Rules: []Rule{
		{Equals("lens", "lenses", "lens kit", "prime lens", "zoom lens"), "Lenses"},
		{Equals("camera", "cameras", "camera body", "cinema camera", "body"), "Cameras"},
		{HasPrefix("light", "led panel"), "Lighting"},
		{HasPrefix("audio", "mic", "sound"), "Audio"},
		{HasPrefix("drone", "uav"), "Drones"},
		{HasPrefix("grip", "rig"), "Grip"},
		{HasPrefix("tripod", "stand", "support"), "Supports"},
		{HasPrefix("monitor", "display"), "Monitors"},
		{HasPrefix("gimbal", "stabili"), "Gimbals"},
		{HasPrefix("power", "batter", "v-mount", "vmount"), "Power"},
		{HasPrefix("accessor", "misc"), "Accessories"},
	},
}

// EquipmentBrands backs the rental equipment and equipment catalog pages.
// Every Sony line collapses into "Sony".
var EquipmentBrands = Normalizer{
	Sentinel: Unknown,
	Rules: []Rule{
		{HasPrefix("sony"), "Sony"},
		{HasPrefix("canon"), "Canon"},
		{HasPrefix("nikon"), "Nikon"},
		{HasPrefix("panasonic", "lumix"), "Panasonic"},
		{HasPrefix("blackmagic", "bmpcc", "bmd"), "Blackmagic"},
		{HasPrefix("fuji"), "Fujifilm"},
		{HasPrefix("arri"), "ARRI"},
		{Equals("red", "red digital cinema", "red komodo"), "RED"},
		{HasPrefix("dji"), "DJI"},
		{HasPrefix("sigma"), "Sigma"},
		{HasPrefix("godox"), "Godox"},
		{HasPrefix("aputure"), "Aputure"},
		{HasPrefix("rode", "røde"), "Rode"},
		{HasPrefix("zeiss"), "Zeiss"},
	},
}

// StoreBrands backs the store catalogue, which keeps Sony's G Master line
// apart and buckets unbranded goods together.
var StoreBrands = Normalizer{
	Sentinel: Unknown,
	Rules: []Rule{
		{HasPrefix("sony_g", "sony g", "sony-g"), "Sony G Master"},
		{HasPrefix("sony"), "Sony"},
		{HasPrefix("canon"), "Canon"},
		{HasPrefix("nikon"), "Nikon"},
		{HasPrefix("smallrig", "small rig"), "SmallRig"},
		{HasPrefix("sandisk"), "SanDisk"},
		{HasPrefix("godox"), "Godox"},
		{Equals("generic", "unbranded", "no brand", "none", "n/a"), "Generic"},
	},
}

// BrandsFor picks the brand vocabulary of a listing kind's page.
func BrandsFor(kind string) Normalizer {
	if kind == "store" {
		return StoreBrands
	}
	return EquipmentBrands
}
