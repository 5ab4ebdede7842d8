// Package skill holds the passive modifiers a player can hold and every
// point where they bend the rules.
package skill

// Skill ids.
const (
	PovertyRelief    = "poverty_relief"
	Lucky7           = "lucky_7"
	Calculated       = "calculated"
	Alchemy          = "alchemy"
	VIPDiscount      = "vip_discount"
	Negotiator       = "negotiator"
	ConsolationPrize = "consolation_prize"
	CutCorners       = "cut_corners"
	TimeFreeze       = "time_freeze"
	OCD              = "ocd"
	AutoRestock      = "auto_restock"
	TurnFortune      = "turn_fortune"
	BigOrderExpert   = "big_order_expert"
	HardOrderExpert  = "hard_order_expert"
)

// Definition describes one catalogue entry.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	Type        string `json:"type"`
	MinProgress int    `json:"minProgress"` // lowest mainline progress it can be offered at
}

// Catalogue is the fixed list of skills, in offer order.
var Catalogue = []Definition{
	{ID: PovertyRelief, Name: "贫困救济", Type: "gold", Desc: "持有金币 < 5 时，完成订单的金币奖励额外增加。"},
	{ID: Lucky7, Name: "幸运 7", Type: "luck", Desc: "当前金币数量的尾数为 7 时，抽取传说物品的概率翻倍。"},
	{ID: Calculated, Name: "精打细算", Type: "gold", MinProgress: 2, Desc: "当前金币 < 10 时，金币抽奖消耗 -2（最低为1）。"},
	{ID: Alchemy, Name: "炼金术", Type: "recycle", Desc: "回收稀有及以上品质物品时，15% 概率获得额外奖励。"},
	{ID: VIPDiscount, Name: "贵宾折扣", Type: "draw", MinProgress: 2, Desc: "精准和有的放矢词缀的奖池金币消耗减少 1。"},
	{ID: Negotiator, Name: "谈判专家", Type: "utility", MinProgress: 3, Desc: "抽到史诗或以上品质物品时，所有订单获得 1 次刷新次数。"},
	{ID: ConsolationPrize, Name: "安慰奖", Type: "luck", Desc: "连续 5 次抽到普通品质后，下次抽奖必定是稀有以上品质。"},
	{ID: CutCorners, Name: "偷工减料", Type: "refresh", MinProgress: 3, Desc: "生成新订单时，20% 概率使需求物品数量 -1（最低为1）。"},
	{ID: TimeFreeze, Name: "时间冻结", Type: "refresh", MinProgress: 3, Desc: "刷新单个订单时，20% 概率不消耗剩余刷新次数。"},
	{ID: OCD, Name: "强迫症", Type: "order", Desc: "提交的订单若所有物品属于同一种类，奖励翻倍。"},
	{ID: AutoRestock, Name: "自动补货", Type: "draw", Desc: "完成任意订单后，下次抽奖多获得 1 个物品。"},
	{ID: TurnFortune, Name: "时来运转", Type: "luck", Desc: "完成任意订单后，下次抽奖必定是稀有以上品质。"},
	{ID: BigOrderExpert, Name: "大订单专家", Type: "order", Desc: "完成需求物品数为 4 个的订单时获得额外奖励。"},
	{ID: HardOrderExpert, Name: "困难订单专家", Type: "order", MinProgress: 3, Desc: "完成需要史诗以上品质物品的订单时获得额外奖励。"},
}

// Lookup returns the catalogue entry for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range Catalogue {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
