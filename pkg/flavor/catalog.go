package flavor

import (
	"strings"
	"sync/atomic"

	"github.com/brewstack/brewstack/pkg/types"
)

// Locale selects the language of the generated text.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh-TW"
)

// Locales lists the supported locales; the first is the fallback.
var Locales = []Locale{LocaleEN, LocaleZH}

// LocaleVar is a Locale that can be read and replaced concurrently, in the
// manner of slog.LevelVar. The zero value reads as LocaleEN.
type LocaleVar struct {
	v atomic.Value
}

// Locale returns the current value.
func (lv *LocaleVar) Locale() Locale {
	if l, ok := lv.v.Load().(Locale); ok {
		return l
	}
	return LocaleEN
}

// Set replaces the current value.
func (lv *LocaleVar) Set(l Locale) {
	lv.v.Store(l)
}

// Resolve parses s when it is non-empty and otherwise returns the current value.
func (lv *LocaleVar) Resolve(s string) Locale {
	if s == "" {
		return lv.Locale()
	}
	return ParseLocale(s)
}

// ParseLocale matches s case-insensitively against the supported locales.
// "zh", "zh-tw" and "zh_TW" all select LocaleZH. Anything unrecognized,
// including "", falls back to LocaleEN.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")) {
	case "zh", "zh-tw", "zh-hant":
		return LocaleZH
	default:
		return LocaleEN
	}
}

// Note keys. Each names one row of a catalog's notes table.
const (
	noteAcidityBright   = "acidity.high.bright"
	noteAcidityRounded  = "acidity.high.rounded"
	noteAcidityTropical = "acidity.high.tropical"
	noteAcidityMedium   = "acidity.medium"
	noteAcidityLow      = "acidity.low"

	noteSweetnessClean   = "sweetness.high.clean"
	noteSweetnessJammy   = "sweetness.high.jammy"
	noteSweetnessCaramel = "sweetness.high.caramel"
	noteSweetnessMedium  = "sweetness.medium"
	noteSweetnessLow     = "sweetness.low"

	noteBitternessCocoa  = "bitterness.high.cocoa"
	noteBitternessHarsh  = "bitterness.high.harsh"
	noteBitternessMedium = "bitterness.medium"
	noteBitternessLow    = "bitterness.low"

	noteBodySilky   = "body.high.silky"
	noteBodySyrupy  = "body.high.syrupy"
	noteBodyRounded = "body.high.rounded"
	noteBodyMedium  = "body.medium"
	noteBodyLow     = "body.low"

	noteOverallBalanced     = "overall.balanced"
	noteOverallAcidSweet    = "overall.acid_sweet"
	noteOverallBitterBodied = "overall.bitter_bodied"
)

// Tip keys. They match the calculator's rule keys where a band exists in both.
const (
	tipFineShort       = "grind.fine.short"
	tipFineLong        = "grind.fine.long"
	tipCoarseShort     = "grind.coarse.short"
	tipCoarseLong      = "grind.coarse.long"
	tipMediumShort     = "grind.medium.short"
	tipMediumLong      = "grind.medium.long"
	tipRatioStrong     = "ratio.strong"
	tipRatioWeak       = "ratio.weak"
	tipTemperatureHot  = "temperature.hot"
	tipTemperatureCool = "temperature.cool"
	tipBloomShort      = "bloom.short"
	tipBloomLong       = "bloom.long"
	tipBloomSkipped    = "bloom.skipped"
	tipBloomRatioLow   = "bloom_ratio.low"
	tipBloomRatioHigh  = "bloom_ratio.high"
	tipPoursNone       = "pours.none"
	tipPoursMany       = "pours.many"
	tipBalanced        = "balanced"
)

// catalog is the fixed text of one locale.
type catalog struct {
	// basePrefix, process[m] and roast[r] concatenate into the base sentence.
	basePrefix string
	process    map[types.ProcessMethod]string
	roast      map[types.RoastLevel]string

	notes map[string]string
	tips  map[string]string
	guide []Topic
}

var catalogs = map[Locale]*catalog{
	LocaleEN: &catalogEN,
	LocaleZH: &catalogZH,
}

func catalogFor(loc Locale) *catalog {
	if c, ok := catalogs[loc]; ok {
		return c
	}
	return &catalogEN
}

func (c *catalog) baseNote(m types.ProcessMethod, r types.RoastLevel) string {
	return c.basePrefix + c.process[m] + c.roast[r]
}

// note and tip fall back to English for a key the locale lacks.
func (c *catalog) note(key string) string {
	if s, ok := c.notes[key]; ok {
		return s
	}
	return catalogEN.notes[key]
}

func (c *catalog) tip(key string) string {
	if s, ok := c.tips[key]; ok {
		return s
	}
	return catalogEN.tips[key]
}

var catalogEN = catalog{
	basePrefix: "",
	process: map[types.ProcessMethod]string{
		types.ProcessNatural: "**Natural-processed** coffee usually tastes **full and exuberant**, with pronounced fruit sweetness",
		types.ProcessWashed:  "**Washed** coffee usually tastes **clean and bright**",
		types.ProcessHoney:   "**Honey-processed** coffee sits between washed and natural, usually with **clean sweetness and balanced acidity**",
	},
	roast: map[types.RoastLevel]string{
		types.RoastLight:  "; as a **light roast** it brings out **delicate floral and fruit aromas with bright acidity**.",
		types.RoastMedium: "; as a **medium roast** it is **balanced and rich**, with moderate sweet-acid character and a long finish.",
		types.RoastDark:   "; as a **dark roast** it carries **full cocoa, nut and caramel aromas** with a bittersweet balance.",
	},
	notes: map[string]string{
		noteAcidityBright:   "**High acidity:** **bright, lively citrus, lemon** or **berry** acidity, clean and penetrating.",
		noteAcidityRounded:  "**High acidity:** mostly **apple, grape** or **soft citrus** sweet acidity, rounded and balanced by sweetness with a lingering aftertaste.",
		noteAcidityTropical: "**High acidity:** **tropical fruit or ripe berry** sweet acidity, juicy and woven into the body rather than sharp.",
		noteAcidityMedium:   "**Medium acidity:** clear, balanced acidity that blends with the other flavors without standing out.",
		noteAcidityLow:      "**Low acidity:** acidity is subtle or soft; the cup is smooth and may lean toward sweetness or bitterness.",

		noteSweetnessClean:   "**High sweetness:** clean **cane sugar, honey or nectar** sweetness with a clear, lasting aftertaste.",
		noteSweetnessJammy:   "**High sweetness:** rich sweetness of **dried tropical fruit, berry jam, caramel or chocolate**, full with a long finish.",
		noteSweetnessCaramel: "**High sweetness:** full sweetness like **crème caramel or malt syrup**, fully integrated with the cup.",
		noteSweetnessMedium:  "**Medium sweetness:** balanced sweetness that supports the other flavors and rounds out the mouthfeel.",
		noteSweetnessLow:     "**Low sweetness:** sweetness is lacking; the cup may taste thin or flat.",

		noteBitternessCocoa:  "**High bitterness:** deep **dark chocolate or cocoa** bitterness, or notes of **roasted nuts and wood**; in balance it adds depth.",
		noteBitternessHarsh:  "**High bitterness:** likely over-extraction, showing unpleasant **burnt, smoky or herbal** bitterness; adjust your parameters.",
		noteBitternessMedium: "**Medium bitterness:** moderate bitterness adds weight and layering and balances the sweetness.",
		noteBitternessLow:    "**Low bitterness:** bitterness is barely noticeable; the cup leans sweet and bright and feels refreshing.",

		noteBodySilky:   "**Heavy body:** a **smooth, clean** texture, **silky** and fine, with a crisp lingering finish.",
		noteBodySyrupy:  "**Heavy body:** a **thick, viscous** mouthfeel like **cream or syrup**, strong and mouth-filling.",
		noteBodyRounded: "**Heavy body:** a **round, medium-full** mouthfeel with good **viscosity and texture**.",
		noteBodyMedium:  "**Medium body:** neither thin nor heavy; balanced, comfortable and easy to drink.",
		noteBodyLow:     "**Light body:** a light, possibly watery mouthfeel with a short finish.",

		noteOverallBalanced:     "☕ Overall the cup is **exceptionally balanced and harmonious**; every element blends well and shows the bean at its purest.",
		noteOverallAcidSweet:    "✨ Overall a fine **sweet-acid balance**: lively acidity and rich sweetness play off each other with an attractive finish.",
		noteOverallBitterBodied: "🍫 Overall full-bodied with **intertwined bittersweet notes**, a thick mouthfeel and a warm, solid finish.",
	},
	tips: map[string]string{
		tipFineShort:       "📉 **Sharp or under-extracted (fine grind, short brew)**: **extend the total brew time to 120-150 s** or **grind slightly coarser** to avoid under-extraction.",
		tipFineLong:        "📈 **Bitter or harsh (fine grind, long brew)**: this is usually over-extraction. **Grind coarser** or **shorten the total brew time to 150-180 s**.",
		tipCoarseShort:     "📉 **Thin or watery (coarse grind, short brew)**: **grind finer** or **extend the total brew time to 150-180 s** to raise extraction.",
		tipCoarseLong:      "📈 **Flat with no depth (coarse grind, long brew)**: a coarse grind brewed long rarely tastes good. **Grind finer** and **finish within 120-180 s**.",
		tipMediumShort:     "⏱️ **Short brew time**: if the cup tastes weak, **extend the total brew time to 150-180 s** or **grind slightly finer**.",
		tipMediumLong:      "⏱️ **Long brew time**: if the cup tastes bitter or astringent, **shorten the total brew time to 150-180 s** or **grind slightly coarser**.",
		tipRatioStrong:     "⚖️ **Low ratio (strong brew)**: if the coffee feels too intense or bitter, **raise the ratio to 1:15-1:16** to balance sweetness and body.",
		tipRatioWeak:       "⚖️ **High ratio (weak brew)**: if the cup tastes thin or sharply sour, **lower the ratio to 1:15-1:16** for a fuller cup.",
		tipTemperatureHot:  "🌡️ **Water too hot**: if you taste clear bitterness or off-flavors, **lower the water to 91-93°C** to soften the bitterness.",
		tipTemperatureCool: "🌡️ **Water too cool**: if the cup is weak and sour, **raise the water above 90°C** to extract more sweetness and aroma.",
		tipBloomShort:      "💧 **Bloom too short**: **extend the bloom to 30-40 s**; a full bloom wets the grounds evenly and improves extraction and sweetness.",
		tipBloomLong:       "💧 **Bloom too long**: an over-long bloom can turn the cup bitter and astringent. **Shorten it to 30-40 s**.",
		tipBloomSkipped:    "💧 **No bloom**: bloom for at least **30 s**; it is the key step for even extraction and releasing aroma.",
		tipBloomRatioLow:   "💦 **Too little bloom water**: **raise the bloom water to 2-3× the coffee weight** so the grounds are fully wetted.",
		tipBloomRatioHigh:  "💦 **Too much bloom water**: excess water dilutes the bloom. Consider **reducing it to 2-3× the coffee weight**.",
		tipPoursNone:       "📈 **Single continuous pour**: try **at least 1-2 pulse pours**; staged extraction adds layering and body and reduces over-extraction.",
		tipPoursMany:       "📉 **Many pulse pours**: if the cup is too busy or too acidic, **reduce to 2 pours** or pour more steadily.",
		tipBalanced:        "👍 **Parameters look balanced!** To refine further, try **fine-tuning the grind** or **varying your pour technique**.",
	},
	guide: guideEN,
}

var catalogZH = catalog{
	basePrefix: "此為",
	process: map[types.ProcessMethod]string{
		types.ProcessNatural: "**日曬處理**的咖啡，風味通常**醇厚、奔放**，帶有明顯的果實甜感",
		types.ProcessWashed:  "**水洗處理**的咖啡，風味通常**乾淨、明亮**",
		types.ProcessHoney:   "**蜜處理**的咖啡，風味介於水洗與日曬之間，通常具有**乾淨的甜感與平衡的酸質**",
	},
	roast: map[types.RoastLevel]string{
		types.RoastLight:  "，屬於**淺烘焙**，更能突顯**細緻的花果香與明亮酸質**。",
		types.RoastMedium: "，屬於**中烘焙**，風味**平衡且豐富**，酸甜感適中，餘韻悠長。",
		types.RoastDark:   "，屬於**深烘焙**，帶有**醇厚飽滿的可可、堅果與焦糖香氣**，苦甜平衡。",
	},
	notes: map[string]string{
		noteAcidityBright:   "**高酸度：** 呈現**明亮、活潑的柑橘、檸檬**或**莓果**般的酸感，純淨且具穿透力，令人振奮。",
		noteAcidityRounded:  "**高酸度：** 多為**蘋果、葡萄**或**柔和柑橘**般的甜酸，圓潤且與甜感平衡，帶有回甘。",
		noteAcidityTropical: "**高酸度：** 呈現**熱帶水果或熟成莓果**般的甜酸，多汁且與醇厚感融合，不尖銳。",
		noteAcidityMedium:   "**中等酸度：** 酸質清晰且平衡，與其他風味和諧交織，不突兀。",
		noteAcidityLow:      "**低酸度：** 酸質不明顯或柔和，口感平穩，可能更強調甜感或苦感。",

		noteSweetnessClean:   "**高甜感：** 呈現**蔗糖、蜂蜜或花蜜**般的乾淨甜味，回甘明顯且持久。",
		noteSweetnessJammy:   "**高甜感：** 有著濃郁的**熱帶水果乾、莓果醬、焦糖或巧克力**般的香甜，醇厚且餘韻綿長。",
		noteSweetnessCaramel: "**高甜感：** 甜感飽滿，如同**焦糖布丁或麥芽糖**般的醇厚甜味，與整體風味完美融合。",
		noteSweetnessMedium:  "**中等甜感：** 甜感平衡，能襯托其他風味，使口感更圓潤，增添舒適度。",
		noteSweetnessLow:     "**低甜感：** 甜感不足，咖啡風味可能顯得單薄或平淡，缺乏豐富性。",

		noteBitternessCocoa:  "**高苦味：** 呈現**濃郁黑巧克力、可可**般的深沉苦感，或帶有**烘烤堅果、木質**氣息，若平衡得宜則有深度。",
		noteBitternessHarsh:  "**高苦味：** 可能來自過度萃取，呈現不悅的**焦糊、煙燻或藥草**般的苦感，需調整參數。",
		noteBitternessMedium: "**中等苦味：** 苦味適中，能增加咖啡的厚實感與層次，與甜感形成良好平衡。",
		noteBitternessLow:    "**低苦味：** 苦味不明顯，整體風味可能更偏向酸甜感，口感較為清爽。",

		noteBodySilky:   "**高醇厚度：** 口感**滑順、乾淨**，像**絲綢般**的細膩質感，餘韻清爽而綿長。",
		noteBodySyrupy:  "**高醇厚度：** 口感**醇厚、黏稠**，像**奶油、糖漿般**的飽滿度，強勁且持久，充滿口腔。",
		noteBodyRounded: "**高醇厚度：** 口感**圓潤、中等偏厚**，有著良好的**黏稠感與質感**，提供豐富的口腔體驗。",
		noteBodyMedium:  "**中等醇厚度：** 口感適中，既不單薄也不厚重，平衡舒適，順暢入喉。",
		noteBodyLow:     "**低醇厚度：** 口感清淡，可能顯得水感或單薄，餘韻較短，缺乏份量感。",

		noteOverallBalanced:     "☕ 整體風味**極為平衡且和諧**，各項風味元素融合得宜，口感舒適，展現出咖啡豆的純粹美好。",
		noteOverallAcidSweet:    "✨ 整體風味呈現良好的**酸甜平衡**，活潑的酸質與豐富的甜感相互輝映，餘韻迷人。",
		noteOverallBitterBodied: "🍫 整體風味醇厚，**苦甜感交織**，帶有厚實的口感和溫暖的風味，餘韻扎實。",
	},
	tips: map[string]string{
		tipFineShort:       "📉 **風味尖銳/欠萃（細研磨+短時間）**：建議**延長總沖煮時間至 120-150 秒**，或稍微**調粗研磨度**，以避免萃取不足。",
		tipFineLong:        "📈 **風味過苦/雜味（細研磨+長時間）**：這通常是過度萃取。建議**調粗研磨度**，或**縮短總沖煮時間至 150-180 秒**。",
		tipCoarseShort:     "📉 **風味淡薄/水感（粗研磨+短時間）**：建議**調細研磨度**，或**延長總沖煮時間至 150-180 秒**，以提升萃取率。",
		tipCoarseLong:      "📈 **風味稀薄/無層次（粗研磨+長時間）**：粗研磨長時間沖煮容易風味不佳。建議**調細研磨度**，並**控制在 120-180 秒內完成沖煮**。",
		tipMediumShort:     "⏱️ **總沖煮時間偏短**：若風味清淡，可嘗試**延長總沖煮時間至 150-180 秒**，或稍微**調細研磨度**。",
		tipMediumLong:      "⏱️ **總沖煮時間偏長**：若風味有苦澀感，可嘗試**縮短總沖煮時間至 150-180 秒**，或稍微**調粗研磨度**。",
		tipRatioStrong:     "⚖️ **粉水比偏低（濃度高）**：若覺得咖啡過於濃郁或苦感重，建議**提升粉水比至 1:15～1:16**，有助於平衡甜感與醇厚度。",
		tipRatioWeak:       "⚖️ **粉水比偏高（濃度低）**：若風味過淡或產生尖銳酸澀，建議**降低粉水比至 1:15～1:16**，讓咖啡風味更飽滿。",
		tipTemperatureHot:  "🌡️ **水溫偏高**：若風味有明顯苦味或雜味，建議將水溫**降至 91～93°C**，有助於柔化苦感，突顯咖啡原有風味。",
		tipTemperatureCool: "🌡️ **水溫偏低**：若風味清淡、酸感突出，建議將水溫**提升至 90°C 以上**，以充分萃取咖啡的甜感與香氣。",
		tipBloomShort:      "💧 **悶蒸時間不足**：建議**延長悶蒸時間至 30-40 秒**，充足的悶蒸有助於咖啡粉均勻吸水，提升整體萃取品質與甜感。",
		tipBloomLong:       "💧 **悶蒸時間過長**：可能導致咖啡粉過度悶蒸而產生苦澀。建議**縮短至 30-40 秒**。",
		tipBloomSkipped:    "💧 **未進行悶蒸**：強烈建議至少悶蒸 **30 秒**，這是均勻萃取和釋放咖啡香氣的關鍵步驟。",
		tipBloomRatioLow:   "💦 **悶蒸水量偏少**：建議**提升悶蒸水量至粉重的 2-3 倍**，以確保咖啡粉充分潤濕，避免萃取不均。",
		tipBloomRatioHigh:  "💦 **悶蒸水量偏多**：過多水分可能稀釋悶蒸效果。可考慮稍微**減少悶蒸水量至粉重的 2-3 倍**。",
		tipPoursNone:       "📈 **未斷水**：建議嘗試**至少 1-2 次斷水**，這有助於分段萃取，提升風味層次與飽滿度，減少過度萃取。",
		tipPoursMany:       "📉 **斷水次數較多**：若風味過於複雜或酸度突出，可考慮**減少斷水次數至 2 次**，或調整注水方式讓水流更平穩。",
		tipBalanced:        "👍 **參數配置良好！** 您目前的沖煮參數看起來很平衡。若想進一步優化，可嘗試**微調研磨度**或**變化注水手法**來探索更細緻的風味。",
	},
	guide: guideZH,
}
