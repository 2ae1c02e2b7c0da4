package detection

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"zoneguard-worker-go/internal/models"
)

// BuildRequest assembles the remote inference request for one JPEG frame
func BuildRequest(jpeg []byte, frame *models.Frame, classes []string) (*structpb.Struct, error) {
	classList := make([]interface{}, 0, len(classes))
	for _, c := range classes {
		classList = append(classList, c)
	}

	return structpb.NewStruct(map[string]interface{}{
		"image":     base64.StdEncoding.EncodeToString(jpeg),
		"source_id": frame.SourceID,
		"frame_id":  float64(frame.FrameID),
		"width":     float64(frame.Width),
		"height":    float64(frame.Height),
		"classes":   classList,
	})
}

// ParseResponse reads detections from a remote inference response of the form
//
//	{"detections": [{"bbox": [x1, y1, x2, y2], "class_name": "person", "class_id": 0, "score": 0.91}]}
func ParseResponse(resp *structpb.Struct) ([]models.Detection, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty detection response")
	}

	if errVal, ok := resp.GetFields()["error"]; ok && errVal.GetStringValue() != "" {
		return nil, fmt.Errorf("detection service error: %s", errVal.GetStringValue())
	}

	list := resp.GetFields()["detections"].GetListValue()
	if list == nil {
		return []models.Detection{}, nil
	}

	out := make([]models.Detection, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("detection %d is not an object", i)
		}

		bbox := fields["bbox"].GetListValue().GetValues()
		if len(bbox) != 4 {
			return nil, fmt.Errorf("detection %d: bbox has %d values, want 4", i, len(bbox))
		}

		out = append(out, models.Detection{
			Box: models.BoundingBox{
				X1: int(bbox[0].GetNumberValue()),
				Y1: int(bbox[1].GetNumberValue()),
				X2: int(bbox[2].GetNumberValue()),
				Y2: int(bbox[3].GetNumberValue()),
			},
			ClassLabel: fields["class_name"].GetStringValue(),
			ClassID:    int(fields["class_id"].GetNumberValue()),
			Score:      float32(fields["score"].GetNumberValue()),
		})
	}
	return out, nil
}
