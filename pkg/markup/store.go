package markup

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationStore 注释存储
// 按页面分组，页内按插入顺序保存（插入顺序即 z 序，越晚越靠上）。
// 页面条目在首次写入时才创建。记录标识由存储独占分配。
//
// 引擎本身是单线程事件驱动的，加锁是为了让存储在被
// 多个 goroutine 误用时仍保持单写者不变式。
type AnnotationStore struct {
	mu     sync.RWMutex
	pages  map[int][]*Annotation
	nextID int
}

// NewAnnotationStore 创建空的注释存储
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		pages:  make(map[int][]*Annotation),
		nextID: 1,
	}
}

// Add 将记录追加到指定页面的序列末尾
// 若记录没有 ID 则分配一个新 ID；返回传入的记录
func (s *AnnotationStore) Add(pageNum int, a *Annotation) *Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = fmt.Sprintf("mk-%d", s.nextID)
		s.nextID++
	} else {
		// 导入的记录自带 ID，避免后续分配撞号
		var n int
		if _, err := fmt.Sscanf(a.ID, "mk-%d", &n); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	a.Page = pageNum
	s.pages[pageNum] = append(s.pages[pageNum], a)
	debugPrintf("[Store] Added %s annotation %s to page %d\n", a.Type, a.ID, pageNum)
	return a
}

// Remove 按 ID 删除记录
// 扫描所有页面，最多删除一条；返回是否发生了删除
func (s *AnnotationStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pageNum, list := range s.pages {
		for i, a := range list {
			if a.ID == id {
				s.pages[pageNum] = append(list[:i], list[i+1:]...)
				debugPrintf("[Store] Removed annotation %s from page %d\n", id, pageNum)
				return true
			}
		}
	}
	return false
}

// Get 按 ID 查找记录，未找到返回 nil
func (s *AnnotationStore) Get(id string) *Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, list := range s.pages {
		for _, a := range list {
			if a.ID == id {
				return a
			}
		}
	}
	return nil
}

// ListForPage 返回指定页面的记录序列（插入顺序）
// 返回的是切片副本，记录本身共享
func (s *AnnotationStore) ListForPage(pageNum int) []*Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.pages[pageNum]
	if len(list) == 0 {
		return nil
	}
	out := make([]*Annotation, len(list))
	copy(out, list)
	return out
}

// ClearPage 清空指定页面的所有记录
func (s *AnnotationStore) ClearPage(pageNum int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pages, pageNum)
}

// ClearAll 清空所有记录
func (s *AnnotationStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[int][]*Annotation)
}

// CountAll 返回所有页面的记录总数
func (s *AnnotationStore) CountAll() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, list := range s.pages {
		total += len(list)
	}
	return total
}

// CountByType 按类型统计记录数
func (s *AnnotationStore) CountByType() map[AnnotationType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[AnnotationType]int)
	for _, list := range s.pages {
		for _, a := range list {
			counts[a.Type]++
		}
	}
	return counts
}

// CountByPage 按页面统计记录数
func (s *AnnotationStore) CountByPage() map[int]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for pageNum, list := range s.pages {
		if len(list) > 0 {
			counts[pageNum] = len(list)
		}
	}
	return counts
}

// listAll 按页码升序、页内插入顺序返回全部记录
func (s *AnnotationStore) listAll() []*Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pageNums := make([]int, 0, len(s.pages))
	for pageNum := range s.pages {
		pageNums = append(pageNums, pageNum)
	}
	sort.Ints(pageNums)

	var out []*Annotation
	for _, pageNum := range pageNums {
		out = append(out, s.pages[pageNum]...)
	}
	return out
}
