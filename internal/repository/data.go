package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"rentchat/internal/model"
)

func intPtr(v int) *int { return &v }

// MockHouses returns the built-in demo catalog used when no database is
// configured.
func MockHouses() []model.House {
	return []model.House{
		{ID: "h001", Area: "南山", Location: "科技园", Type: "一室一厅", Price: intPtr(3000), Desc: "近地铁，采光好", Tags: []string{"近地铁", "采光好"}},
		{ID: "h002", Area: "南山", Location: "深大", Type: "两室一厅", Price: intPtr(4500), Desc: "精装修，拎包入住", Tags: []string{"精装修"}},
		{ID: "h003", Area: "南山", Location: "蛇口", Type: "三室两厅", Price: intPtr(6000), Desc: "海景房，带阳台", Tags: []string{"海景", "阳台"}},
		{ID: "h004", Area: "福田", Location: "车公庙", Type: "一室一厅", Price: intPtr(3500), Desc: "商圈中心，配套齐全", Tags: []string{"商圈"}},
		{ID: "h005", Area: "福田", Location: "梅林", Type: "两室一厅", Price: intPtr(4200), Desc: "安静小区，带电梯", Tags: []string{"电梯房"}},
		{ID: "h006", Area: "福田", Location: "莲花村", Type: "单间", Price: intPtr(2200), Desc: "适合一人居住", Tags: []string{"单间"}},
		{ID: "h007", Area: "罗湖", Location: "东门", Type: "两室一厅", Price: intPtr(3800), Desc: "老城区，生活方便", Tags: []string{"生活方便"}},
		{ID: "h008", Area: "宝安", Location: "西乡", Type: "一室一厅", Price: intPtr(2600), Desc: "近1号线，性价比高", Tags: []string{"近地铁", "性价比"}},
		{ID: "h009", Area: "宝安", Location: "坪洲", Type: "三室一厅", Price: intPtr(5200), Desc: "适合合租", Tags: []string{"合租"}},
		// Price intentionally unusable: the crawler sometimes delivers "面议".
		{ID: "h010", Area: "南山", Location: "前海", Type: "公寓", Price: nil, Desc: "价格面议", Tags: []string{"公寓"}},
	}
}

// rawHouse mirrors the catalog file schema with an untyped price, so rows
// scraped with a non-numeric price still load instead of failing the whole
// file.
type rawHouse struct {
	ID       string   `json:"id"`
	Area     string   `json:"area"`
	Location string   `json:"location"`
	Type     string   `json:"type"`
	Price    any      `json:"price"`
	Desc     string   `json:"desc"`
	Tags     []string `json:"tags"`
}

// LoadCatalogFile reads a JSON array of listings from disk. Prices are
// coerced tolerantly; rows whose price cannot be read keep a nil price and
// are excluded at query time.
func LoadCatalogFile(path string) ([]model.House, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var raw []rawHouse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	houses := make([]model.House, 0, len(raw))
	for _, r := range raw {
		houses = append(houses, model.House{
			ID:       r.ID,
			Area:     r.Area,
			Location: r.Location,
			Type:     r.Type,
			Price:    model.CoercePrice(r.Price),
			Desc:     r.Desc,
			Tags:     r.Tags,
		})
	}
	return houses, nil
}
