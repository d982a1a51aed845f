package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance exercises the public API surface end to end. It is shared by
// the unit test suite and the documentation generator.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	// Fixed ids keep the head/tail assertions deterministic.
	id1 := "00000000-0000-7000-8000-000000000001"
	id2 := "00000000-0000-7000-8000-000000000002"
	id3 := "00000000-0000-7000-8000-000000000003"
	id4 := "00000000-0000-7000-8000-000000000004"
	id5 := "00000000-0000-7000-8000-000000000005"

	a.Alternative("Create store", func(a *biff.A) {
		resp := apiRequest("POST", "/stores").
			WithBodyJson(JSON{
				"name":         "events",
				"min_capacity": 2,
				"max_capacity": 4,
			}).Do()
		Save(resp, "Create store", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"name":  "events",
			"total": 0,
			"head":  nil,
			"tail":  nil,
			"capacity": JSON{
				"unlimited": false,
				"min":       2,
				"max":       4,
				"target":    4,
				"remaining": 4,
			},
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Retrieve store", func(a *biff.A) {
			resp := apiRequest("GET", "/stores/events").Do()
			Save(resp, "Retrieve store", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List stores", func(a *biff.A) {
			resp := apiRequest("GET", "/stores").Do()
			Save(resp, "List stores", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedBody})
		})

		a.Alternative("Create store - already exists", func(a *biff.A) {
			resp := apiRequest("POST", "/stores").
				WithBodyJson(JSON{
					"name": "events",
				}).Do()
			Save(resp, "Create store - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Retrieve store - not found", func(a *biff.A) {
			resp := apiRequest("GET", "/stores/invented").Do()
			Save(resp, "Retrieve store - not found", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Drop store", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/events:dropStore").Do()
			Save(resp, "Drop store", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Retrieve dropped store", func(a *biff.A) {
				resp := apiRequest("GET", "/stores/events").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Add entries", func(a *biff.A) {

			myValue1 := JSON{"name": "Fulanez", "address": "Elm Street 11"}
			myValue2 := JSON{"name": "Menganez", "address": "Elm Street 12"}

			body := ""
			for _, item := range []JSON{
				{"id": id1, "value": myValue1},
				{"id": id2, "value": myValue2},
			} {
				line, _ := json.Marshal(item)
				body += string(line) + "\n"
			}
			resp := apiRequest("POST", "/stores/events:add").
				WithBodyString(body).Do()
			Save(resp, "Add entries", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
			for _, expectedId := range []string{id1, id2} {
				var entry JSON
				dec.Decode(&entry)
				biff.AssertEqual(entry["id"], expectedId)
			}

			a.Alternative("Get entry", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:get").
					WithBodyJson(JSON{"id": id1}).Do()
				Save(resp, "Get entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				entry := resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(entry["id"], id1)
				biff.AssertEqualJson(entry["value"], myValue1)
			})

			a.Alternative("Get entry - miss", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:get").
					WithBodyJson(JSON{"id": id3}).Do()
				Save(resp, "Get entry - miss", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Get entry - null id", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:get").
					WithBodyJson(JSON{"id": nil}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Get value", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:getValue").
					WithBodyJson(JSON{"id": id2}).Do()
				Save(resp, "Get value", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myValue2)
			})

			a.Alternative("Update entry", func(a *biff.A) {
				newValue := JSON{"name": "Fulanez", "address": "Moved away"}
				resp := apiRequest("POST", "/stores/events:update").
					WithBodyJson(JSON{"id": id1, "value": newValue}).Do()
				Save(resp, "Update entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				entry := resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(entry["id"], id1)
				biff.AssertEqualJson(entry["value"], newValue)

				a.Alternative("Read back", func(a *biff.A) {
					resp := apiRequest("POST", "/stores/events:get").
						WithBodyJson(JSON{"id": id1}).Do()

					entry := resp.BodyJson().(map[string]interface{})
					biff.AssertEqualJson(entry["value"], newValue)
				})
			})

			a.Alternative("Update entry - miss", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:update").
					WithBodyJson(JSON{"id": id3, "value": JSON{}}).Do()
				Save(resp, "Update entry - miss", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Remove entry", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:remove").
					WithBodyJson(JSON{"id": id1}).Do()
				Save(resp, "Remove entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				entry := resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(entry["id"], id1)

				a.Alternative("Head moves forward", func(a *biff.A) {
					resp := apiRequest("GET", "/stores/events").Do()

					info := resp.BodyJson().(map[string]interface{})
					biff.AssertEqualJson(info["total"], 1)
					biff.AssertEqual(info["head"], id2)
					biff.AssertEqual(info["tail"], id2)
				})

				a.Alternative("Get removed entry", func(a *biff.A) {
					resp := apiRequest("POST", "/stores/events:get").
						WithBodyJson(JSON{"id": id1}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})
			})

			a.Alternative("Remove entry - miss", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:remove").
					WithBodyJson(JSON{"id": id3}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Head and tail", func(a *biff.A) {
				resp := apiRequest("GET", "/stores/events").Do()
				Save(resp, "Head and tail", ``)

				info := resp.BodyJson().(map[string]interface{})
				biff.AssertEqualJson(info["total"], 2)
				biff.AssertEqual(info["head"], id1)
				biff.AssertEqual(info["tail"], id2)
				biff.AssertEqualJson(info["capacity"], JSON{
					"unlimited": false,
					"min":       2,
					"max":       4,
					"target":    4,
					"remaining": 2,
				})
			})

			a.Alternative("Walk with next", func(a *biff.A) {

				resp := apiRequest("POST", "/stores/events:next").
					WithBodyJson(JSON{"after": nil}).Do()
				Save(resp, "Next - from the head", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				entry := resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(entry["id"], id1)

				resp = apiRequest("POST", "/stores/events:next").
					WithBodyJson(JSON{"after": id1}).Do()

				entry = resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(entry["id"], id2)

				resp = apiRequest("POST", "/stores/events:next").
					WithBodyJson(JSON{"after": id2}).Do()
				Save(resp, "Next - past the tail", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Find", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:find").
					WithBodyJson(JSON{}).Do()
				Save(resp, "Find", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
				for _, expectedId := range []string{id1, id2} {
					var entry JSON
					dec.Decode(&entry)
					biff.AssertEqual(entry["id"], expectedId)
				}
			})

			a.Alternative("Find - reverse", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:find").
					WithBodyJson(JSON{"reverse": true}).Do()
				Save(resp, "Find - reverse", ``)

				dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
				for _, expectedId := range []string{id2, id1} {
					var entry JSON
					dec.Decode(&entry)
					biff.AssertEqual(entry["id"], expectedId)
				}
			})

			a.Alternative("Find - with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:find").
					WithBodyJson(JSON{
						"filter": JSON{"id": id2},
					}).Do()
				Save(resp, "Find - with filter", ``)

				dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
				var entry JSON
				dec.Decode(&entry)
				biff.AssertEqual(entry["id"], id2)
				biff.AssertEqual(dec.More(), false)
			})

			a.Alternative("Add entry - id conflict", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:add").
					WithBodyJson(JSON{"id": id1, "value": JSON{}}).Do()
				Save(resp, "Add entry - id conflict", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})

			a.Alternative("Capacity exhausted", func(a *biff.A) {

				apiRequest("POST", "/stores/events:add").
					WithBodyJson(JSON{"id": id3, "value": JSON{}}).Do()
				apiRequest("POST", "/stores/events:add").
					WithBodyJson(JSON{"id": id4, "value": JSON{}}).Do()

				resp := apiRequest("POST", "/stores/events:add").
					WithBodyJson(JSON{"id": id5, "value": JSON{}}).Do()
				Save(resp, "Add entry - capacity exhausted", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusInsufficientStorage)

				a.Alternative("Cut capacity", func(a *biff.A) {
					resp := apiRequest("POST", "/stores/events:cutCapacity").
						WithBodyJson(JSON{"amount": 10}).Do()
					Save(resp, "Cut capacity", ``)

					// clamped to min
					info := resp.BodyJson().(map[string]interface{})
					biff.AssertEqualJson(info["capacity"], JSON{
						"unlimited": false,
						"min":       2,
						"max":       4,
						"target":    2,
						"remaining": 0,
					})
				})

				a.Alternative("Add capacity", func(a *biff.A) {
					apiRequest("POST", "/stores/events:cutCapacity").
						WithBodyJson(JSON{"amount": 2}).Do()

					resp := apiRequest("POST", "/stores/events:addCapacity").
						WithBodyJson(JSON{"amount": 10}).Do()
					Save(resp, "Add capacity", ``)

					// clamped to max
					info := resp.BodyJson().(map[string]interface{})
					biff.AssertEqualJson(info["capacity"], JSON{
						"unlimited": false,
						"min":       2,
						"max":       4,
						"target":    4,
						"remaining": 0,
					})
				})
			})

			a.Alternative("Size", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/events:size").Do()
				Save(resp, "Size - experimental", `
					EXPERIMENTAL!!!

					Disk usage accounts the journal, not the resident tree.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				result := resp.BodyJson().(map[string]interface{})
				biff.AssertEqualJson(result["entries"], 2)
			})

		})

		a.Alternative("Add entries - generated ids", func(a *biff.A) {

			body := `{"value":{"seq":1}}` + "\n" +
				`{"value":{"seq":2}}` + "\n" +
				`{"value":{"seq":3}}` + "\n"
			resp := apiRequest("POST", "/stores/events:add").
				WithBodyString(body).Do()
			Save(resp, "Add entries - generated ids", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			// time-ordered ids sort lexicographically
			ids := []string{}
			dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
			for dec.More() {
				var entry JSON
				dec.Decode(&entry)
				ids = append(ids, entry["id"].(string))
			}
			biff.AssertEqual(len(ids), 3)
			biff.AssertEqual(ids[0] < ids[1], true)
			biff.AssertEqual(ids[1] < ids[2], true)

			a.Alternative("Tail points to the newest id", func(a *biff.A) {
				resp := apiRequest("GET", "/stores/events").Do()

				info := resp.BodyJson().(map[string]interface{})
				biff.AssertEqual(info["tail"], ids[2])
			})
		})

		a.Alternative("Add entries - empty body", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/events:add").
				WithBodyString("").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		})

	})

	a.Alternative("Add creates the store on first write", func(a *biff.A) {
		resp := apiRequest("POST", "/stores/scratch:add").
			WithBodyJson(JSON{"value": JSON{"hello": "world"}}).Do()
		Save(resp, "Add - create store on first write", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		a.Alternative("Store is listed", func(a *biff.A) {
			resp := apiRequest("GET", "/stores/scratch").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			info := resp.BodyJson().(map[string]interface{})
			biff.AssertEqualJson(info["total"], 1)
		})
	})

	a.Alternative("Create store - unbounded", func(a *biff.A) {
		resp := apiRequest("POST", "/stores").
			WithBodyJson(JSON{
				"name": "unbounded",
			}).Do()
		Save(resp, "Create store - unbounded", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		info := resp.BodyJson().(map[string]interface{})
		biff.AssertEqualJson(info["capacity"], JSON{
			"unlimited": true,
			"min":       0,
			"max":       0,
			"target":    0,
			"remaining": -1,
		})
	})
}
