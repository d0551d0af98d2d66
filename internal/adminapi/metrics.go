package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/gomallhq/gomall/internal/webserver"
	"github.com/gomallhq/gomall/pkg/metrics"
)

type metricPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

func registerMetricsRoutes() {
	webserver.ApiGET("/admin/metrics/:name", getMetric)
}

// getMetric serves the raw datapoints of one gauge for the dashboard
// sparklines. Defaults to the last 24 hours.
func getMetric(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	end := cast.ToInt64(c.QueryParam("end"))
	if end == 0 {
		end = time.Now().Unix()
	}
	start := cast.ToInt64(c.QueryParam("start"))
	if start == 0 {
		start = end - int64((24 * time.Hour).Seconds())
	}

	points, err := metrics.Select(c.Param("name"), start, end)
	if err != nil {
		return failError(c, err)
	}

	out := make([]metricPoint, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		out = append(out, metricPoint{Timestamp: p.Timestamp, Value: p.Value})
	}
	return ok(c, out)
}
