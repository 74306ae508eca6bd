package flavor

import "strings"

// Topic is one entry of the brewing-basics guide.
type Topic struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Intro  string   `json:"intro"`
	Points []string `json:"points"`
}

// Guide returns the brewing-basics topics for loc, in display order.
// The returned slice is a copy; callers may modify it.
func Guide(loc Locale) []Topic {
	src := catalogFor(loc).guide
	out := make([]Topic, len(src))
	for i, t := range src {
		t.Points = append([]string(nil), t.Points...)
		out[i] = t
	}
	return out
}

// FindTopic looks a topic up by ID, case-insensitively.
func FindTopic(loc Locale, id string) (Topic, bool) {
	for _, t := range Guide(loc) {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return Topic{}, false
}

var guideEN = []Topic{
	{
		ID:    "variables",
		Title: "The four brewing variables",
		Intro: "Flavor in the cup is driven mainly by four interacting variables:",
		Points: []string{
			"**Grind size:** finer grounds expose more surface and extract faster; coarser grounds extract more slowly.",
			"**Brew ratio:** coffee to water. It sets the strength of the cup and is the main lever for strong versus light.",
			"**Water temperature:** hotter water extracts faster but pulls bitterness more easily; cooler water extracts slowly and can leave the cup sour or thin.",
			"**Brew time:** total contact time between water and coffee. Too short under-extracts; too long over-extracts and adds off-flavors.",
		},
	},
	{
		ID:    "bloom",
		Title: "Why bloom matters",
		Intro: "The bloom is the first step: pour a little hot water (about 2-3× the coffee weight) to wet the grounds completely and let them rest for 20-40 s.",
		Points: []string{
			"**Purpose:** lets carbon dioxide escape so it does not disturb extraction, and wets the bed evenly for what follows.",
			"**Effect:** too short a bloom leads to uneven, sour extraction; too long can taste flat or stewed.",
		},
	},
	{
		ID:    "pours",
		Title: "Why pulse pour",
		Intro: "Pulse pouring splits the brew water into several pours, pausing between each so the water drains naturally.",
		Points: []string{
			"**Purpose:** gives finer control over extraction, develops more layered flavor and sweetness, and lowers the risk of over-extraction.",
			"**Effect:** sensible pulses make the cup clearer and fuller; one continuous pour can extract unevenly and taste flat.",
		},
	},
	{
		ID:    "process",
		Title: "Washed, natural and honey processing",
		Intro: "Processing is how the green bean is separated from the cherry, and it shapes the final flavor:",
		Points: []string{
			"**Washed:** skin and pulp removed, fermented in water, washed and dried. Usually **clean, bright, with prominent acidity** and strong origin character.",
			"**Natural:** the whole cherry dries in the sun before hulling. Usually **heavy, very sweet, with fermented fruit notes** such as berries and tropical fruit.",
			"**Honey:** between the two; part of the mucilage stays on while drying (yellow, red, black honey). Usually **clean sweetness, balanced acidity and good body**.",
		},
	},
	{
		ID:    "roast",
		Title: "How roast level shapes flavor",
		Intro: "Roast level determines the chemical development of the bean:",
		Points: []string{
			"**Light roast:** light development keeps more origin flavor. **Bright acidity, floral, fruity and citrus** notes, with a lighter body.",
			"**Medium roast:** balanced development of acidity, sweetness, bitterness and body. Often **nutty, caramel, chocolate**, round and layered.",
			"**Dark roast:** heavy development replaces much of the acidity and fruit with roast character: **smoky, caramelized, roasted, dark chocolate** bittersweetness and a heavy body.",
		},
	},
}

var guideZH = []Topic{
	{
		ID:    "variables",
		Title: "什麼是咖啡沖煮的四大變因？",
		Intro: "咖啡沖煮的風味主要受以下四大變因影響，它們相互作用：",
		Points: []string{
			"**研磨度 (Grind Size)：** 咖啡粉顆粒的大小。越細的粉接觸面積越大，萃取越快；越粗的粉萃取越慢。",
			"**粉水比 (Brew Ratio)：** 咖啡粉與水的比例。影響咖啡的濃度與風味強度，是決定咖啡「濃淡」的關鍵。",
			"**水溫 (Water Temperature)：** 沖煮時水溫的高低。高溫有助於快速萃取，但也易帶出苦澀；低溫則萃取較慢，可能導致酸感突出或風味不足。",
			"**沖煮時間 (Brew Time)：** 水與咖啡粉接觸的總時間，影響萃取程度。時間過短可能導致萃取不足，過長則可能過度萃取產生雜味。",
		},
	},
	{
		ID:    "bloom",
		Title: "悶蒸 (Bloom) 的重要性？",
		Intro: "悶蒸是沖煮咖啡的第一步，通常是將少量熱水（約咖啡粉重量的2-3倍）注入咖啡粉中，使其完全濕潤，並靜置約20-40秒。",
		Points: []string{
			"**作用：** 讓咖啡粉中的二氧化碳排出，避免影響後續萃取。同時，讓咖啡粉均勻潤濕，為後續的均勻萃取打下基礎。",
			"**影響：** 悶蒸不足可能導致風味不均、酸澀；悶蒸過度則可能風味平淡或帶有悶味。",
		},
	},
	{
		ID:    "pours",
		Title: "為什麼要斷水？",
		Intro: "斷水（或分段注水）是指在總沖煮過程中，將水量分成幾次注入，每次注入後停止注水一段時間，讓水流自然滴落。",
		Points: []string{
			"**作用：** 有助於更精確地控制萃取過程，可以發展出更豐富的風味層次、提升甜感，並減少過度萃取的風險。",
			"**影響：** 適當的斷水能讓風味更清晰、飽滿；完全不斷水（一次性注水）可能導致萃取不均或風味扁平。",
		},
	},
	{
		ID:    "process",
		Title: "水洗、日曬、蜜處理有什麼差別？",
		Intro: "這是咖啡生豆的處理方式，直接影響咖啡豆的最終風味：",
		Points: []string{
			"**水洗處理 (Washed)：** 咖啡果實去皮去果肉後，將生豆放入水中發酵，再清洗、乾燥。風味通常**乾淨、明亮、酸質突出**，更能展現產地特色。",
			"**日曬處理 (Natural)：** 咖啡果實直接帶著果肉在陽光下乾燥，待乾燥後再去皮去果肉。風味通常**醇厚、甜感飽滿、帶有明顯的發酵果香**。",
			"**蜜處理 (Honey)：** 介於水洗和日曬之間。去皮後保留部分果膠層進行乾燥，又分黃蜜、紅蜜、黑蜜等。風味通常具有**乾淨的甜感、平衡的酸質與良好的醇厚度**。",
		},
	},
	{
		ID:    "roast",
		Title: "烘焙度如何影響咖啡風味？",
		Intro: "烘焙度決定了咖啡豆的化學變化和風味發展：",
		Points: []string{
			"**淺烘焙 (Light Roast)：** 保留更多原始風味。風味通常**酸質明亮、花香、果香、柑橘調**突出，口感較輕盈。",
			"**中烘焙 (Medium Roast)：** 酸甜苦醇厚度達到良好平衡。風味常有**堅果、焦糖、巧克力**等調性，口感圓潤，層次豐富。",
			"**深烘焙 (Dark Roast)：** 原始酸質和花果香多被烘焙風味取代。風味通常有**濃郁的煙燻、焦糖、烘烤、黑巧克力**等苦甜感，醇厚度高。",
		},
	},
}
