package main

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/folio/internal/choreo"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/stage"
)

// processFrames samples the home page's process stack at one progress value.
func (s *server) processFrames(c *gin.Context) {
	progress, err := floatQuery(c, "progress", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be a number"})
		return
	}
	width, err := floatQuery(c, "width", 1280)
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive number"})
		return
	}
	progress = math.Min(math.Max(progress, 0), 1)

	v := choreo.VariantFor(width)
	cards := choreo.SampleStack(len(s.catalog.Process), choreo.DefaultOverlap, v, progress)
	c.JSON(http.StatusOK, gin.H{
		"variant":  v.String(),
		"progress": progress,
		"front":    choreo.Front(cards),
		"cards":    cards,
	})
}

func floatQuery(c *gin.Context, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// maxTickMillis caps one tick so a stalled or hostile client cannot
// overflow the clock.
const maxTickMillis = 1000

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stageMessage is one event from the browser tab driving a stage.
type stageMessage struct {
	Type   string  `json:"type"` // navigate, scroll, resize, hover or tick
	Path   string  `json:"path,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	ID     string  `json:"id,omitempty"`
	On     bool    `json:"on,omitempty"`
	DT     float64 `json:"dt,omitempty"` // milliseconds
}

type stageReply struct {
	Type  string       `json:"type"` // frame or error
	Frame *stage.Frame `json:"frame,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (s *server) stageSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stage: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	vp := motion.Viewport{Width: 1280, Height: 800}
	if w, err := floatQuery(c, "width", vp.Width); err == nil && w > 0 {
		vp.Width = w
	}
	if h, err := floatQuery(c, "height", vp.Height); err == nil && h > 0 {
		vp.Height = h
	}

	st := stage.New(&stage.Builder{Catalog: s.catalog, Guestbook: s.guestbookSize}, vp,
		stage.WithSettleDelay(s.cfg.SettleDelay))
	defer st.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("stage: websocket read: %v", err)
			}
			return
		}

		var msg stageMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendStage(conn, stageReply{Type: "error", Error: "invalid message format"})
			continue
		}
		sendStage(conn, applyStage(st, msg))
	}
}

// applyStage feeds one event into st and returns the resulting frame.
func applyStage(st *stage.Stage, msg stageMessage) stageReply {
	switch msg.Type {
	case "navigate":
		if _, err := st.Navigate(msg.Path); err != nil {
			log.Printf("stage: navigate %s: %v", msg.Path, err)
		}
	case "scroll":
		st.Scroll(msg.Y)
	case "resize":
		if msg.Width <= 0 || msg.Height <= 0 {
			return stageReply{Type: "error", Error: "resize needs a positive width and height"}
		}
		st.Resize(msg.Width, msg.Height)
	case "hover":
		if !st.Hover(msg.ID, msg.On) {
			return stageReply{Type: "error", Error: "unknown node: " + msg.ID}
		}
	case "tick":
		if msg.DT > 0 {
			st.Advance(time.Duration(math.Min(msg.DT, maxTickMillis) * float64(time.Millisecond)))
		}
	default:
		return stageReply{Type: "error", Error: "unknown message type: " + msg.Type}
	}
	f := st.Frame()
	return stageReply{Type: "frame", Frame: &f}
}

func sendStage(conn *websocket.Conn, reply stageReply) {
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("stage: websocket write: %v", err)
	}
}
